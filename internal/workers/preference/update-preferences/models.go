// internal/workers/preference/update-preferences/models.go
package updatepreferences

import (
	"food-recommender/internal/common/validation"
	"food-recommender/internal/models"
)

const (
	ActionGet    = "get"
	ActionPut    = "put"
	ActionRate   = "rate"
	ActionDelete = "delete"
)

type Input struct {
	Action              string   `json:"action"`
	UserID              string   `json:"userId"`
	PreferredCategories []string `json:"preferredCategories,omitempty"`
	PreferredTags       []string `json:"preferredTags,omitempty"`
	ItemID              string   `json:"itemId,omitempty"`
	ItemName            string   `json:"itemName,omitempty"`
	Rating              int      `json:"rating,omitempty"`
}

type Output struct {
	UserID      string                  `json:"userId"`
	Found       bool                    `json:"found"`
	Preferences *models.UserPreferences `json:"preferences,omitempty"`
}

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "properties": {
    "action": {"enum": ["get", "put", "rate", "delete"]},
    "userId": {"type": "string", "minLength": 1},
    "preferredCategories": {"type": "array", "items": {"type": "string"}},
    "preferredTags": {"type": "array", "items": {"type": "string"}},
    "itemId": {"type": "string"},
    "itemName": {"type": "string"},
    "rating": {"type": "integer", "minimum": 1, "maximum": 5}
  },
  "required": ["action", "userId"],
  "if": {"properties": {"action": {"const": "rate"}}},
  "then": {"required": ["itemId", "rating"], "properties": {"itemId": {"minLength": 1}}}
}`)
