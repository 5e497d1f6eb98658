// internal/workers/enrichment/enrich-artifact/models.go
package enrichartifact

import (
	"food-recommender/internal/common/validation"
	"food-recommender/internal/enrichment"
)

const maxBatchItems = 100

// Input selects a single lookup with ItemID or a batch with ItemIDs. ItemIDs wins when both are set.
type Input struct {
	ItemID  string   `json:"itemId,omitempty"`
	ItemIDs []string `json:"itemIds,omitempty"`
}

type Output struct {
	Provider string                          `json:"provider"`
	Artifact *enrichment.Artifact            `json:"artifact,omitempty"`
	Results  map[string]*enrichment.Artifact `json:"results,omitempty"`
	NotFound []string                        `json:"notFound,omitempty"`
}

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "properties": {
    "itemId": {"type": "string", "minLength": 1},
    "itemIds": {
      "type": "array",
      "minItems": 1,
      "maxItems": 100,
      "items": {"type": "string", "minLength": 1}
    }
  },
  "anyOf": [{"required": ["itemId"]}, {"required": ["itemIds"]}]
}`)
