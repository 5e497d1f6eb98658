// internal/workers/enrichment/purge-enrichment-cache/models.go
package purgeenrichmentcache

import (
	"food-recommender/internal/common/validation"
	"food-recommender/internal/enrichment"
)

const (
	ActionPurge     = "purge"
	ActionOverride  = "override"
	ActionBlacklist = "blacklist"
)

// Input is an admin operation on one provider namespace. URL is the override target (empty
// clears it); ResultID is the provider result to blacklist.
type Input struct {
	Provider string `json:"provider"`
	Action   string `json:"action"`
	AdminKey string `json:"adminKey"`
	ItemID   string `json:"itemId,omitempty"`
	URL      string `json:"url,omitempty"`
	ResultID string `json:"resultId,omitempty"`
}

type Output struct {
	Provider string            `json:"provider"`
	Action   string            `json:"action"`
	Deleted  int               `json:"deleted"`
	Entry    *enrichment.Entry `json:"entry,omitempty"`
}

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "properties": {
    "provider": {"type": "string", "minLength": 1},
    "action": {"enum": ["purge", "override", "blacklist"]},
    "adminKey": {"type": "string"},
    "itemId": {"type": "string"},
    "url": {"type": "string"},
    "resultId": {"type": "string"}
  },
  "required": ["provider", "action", "adminKey"],
  "allOf": [
    {
      "if": {"properties": {"action": {"const": "override"}}},
      "then": {"required": ["itemId"], "properties": {"itemId": {"minLength": 1}}}
    },
    {
      "if": {"properties": {"action": {"const": "blacklist"}}},
      "then": {"required": ["itemId", "resultId"], "properties": {"itemId": {"minLength": 1}, "resultId": {"minLength": 1}}}
    }
  ]
}`)
