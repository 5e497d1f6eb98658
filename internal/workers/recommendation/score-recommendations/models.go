// internal/workers/recommendation/score-recommendations/models.go
package scorerecommendations

import (
	"food-recommender/internal/common/validation"
	"food-recommender/internal/models"
	"food-recommender/internal/recommend"
)

// Input mirrors the job variables of a scoring request. Without candidates the catalog is listed.
type Input struct {
	Candidates []models.Food            `json:"candidates,omitempty"`
	Context    recommend.RequestContext `json:"context"`
	Signals    []recommend.Signal       `json:"signals,omitempty"`
	Mode       recommend.Mode           `json:"mode,omitempty"`
	Weights    *recommend.Weights       `json:"weights,omitempty"`
	TopN       int                      `json:"topN,omitempty"`
	FoodType   models.FoodType          `json:"foodType,omitempty"`
}

func (in *Input) toRequest() recommend.Request {
	return recommend.Request{
		Candidates: in.Candidates,
		Context:    in.Context,
		Signals:    in.Signals,
		Mode:       in.Mode,
		Weights:    in.Weights,
		TopN:       in.TopN,
		FoodType:   in.FoodType,
	}
}

type Output struct {
	RequestID       string             `json:"requestId"`
	Recommendations []recommend.Scored `json:"recommendations"`
	TotalCandidates int                `json:"totalCandidates"`
	Mode            recommend.Mode     `json:"mode"`
	Signals         []recommend.Signal `json:"signals"`
	Personalized    bool               `json:"personalized"`
	TrendingUsed    bool               `json:"trendingUsed"`
}

var inputSchema = validation.MustCompile(`{
  "type": "object",
  "properties": {
    "candidates": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "category": {"type": "string"},
          "tags": {"type": ["array", "null"], "items": {"type": "string"}},
          "rating": {"type": "number"}
        },
        "required": ["id", "name"]
      }
    },
    "context": {
      "type": "object",
      "properties": {
        "temperature": {"type": "number"},
        "weatherDescription": {"type": "string"},
        "mood": {"type": "string"},
        "userId": {"type": "string"}
      }
    },
    "signals": {
      "type": "array",
      "items": {"enum": ["weather", "mood", "popularity"]}
    },
    "mode": {"enum": ["", "simple", "weighted"]},
    "weights": {
      "type": "object",
      "properties": {
        "weather": {"type": "number", "minimum": 0},
        "mood": {"type": "number", "minimum": 0},
        "popularity": {"type": "number", "minimum": 0}
      }
    },
    "topN": {"type": "integer", "minimum": 0},
    "foodType": {"enum": ["", "main", "dessert"]}
  },
  "required": ["context"]
}`)
