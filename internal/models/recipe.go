// internal/models/recipe.go
package models

// Recipe is the detail record attached to a food by the recipe enrichment cache.
type Recipe struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary,omitempty"`
	Image          string     `json:"image,omitempty"`
	ReadyInMinutes int        `json:"readyInMinutes"`
	Servings       int        `json:"servings"`
	Difficulty     string     `json:"difficulty"`
	Cuisine        string     `json:"cuisine,omitempty"`
	Steps          []string   `json:"steps,omitempty"`
	Ingredients    []string   `json:"ingredients,omitempty"`
	Nutrition      *Nutrition `json:"nutrition,omitempty"`
	SourceURL      string     `json:"sourceUrl,omitempty"`
}

type Nutrition struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbohydrates float64 `json:"carbohydrates"`
	Fat           float64 `json:"fat"`
}
