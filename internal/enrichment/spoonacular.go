// internal/enrichment/spoonacular.go
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	httpclient "food-recommender/internal/common/http"
	"food-recommender/internal/models"
)

const (
	ProviderSpoonacular = "spoonacular"

	defaultDifficulty = "medium"
)

// Spoonacular searches recipes and reads recipe details.
type Spoonacular struct {
	client  *httpclient.Client
	baseURL string
	apiKey  string
	number  int
}

func NewSpoonacular(client *httpclient.Client, baseURL, apiKey string, number int) *Spoonacular {
	if number <= 0 {
		number = 10
	}
	return &Spoonacular{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		number:  number,
	}
}

func (s *Spoonacular) Name() string { return ProviderSpoonacular }

func (s *Spoonacular) Queries(item models.Food) []string { return RecipeQueries(item) }

type spoonacularSearchResponse struct {
	Results []struct {
		ID        int      `json:"id"`
		Title     string   `json:"title"`
		Image     string   `json:"image"`
		Summary   string   `json:"summary"`
		Cuisines  []string `json:"cuisines"`
		DishTypes []string `json:"dishTypes"`
	} `json:"results"`
}

type spoonacularRecipe struct {
	ID                   int      `json:"id"`
	Title                string   `json:"title"`
	Image                string   `json:"image"`
	Summary              string   `json:"summary"`
	ReadyInMinutes       int      `json:"readyInMinutes"`
	Servings             int      `json:"servings"`
	SourceURL            string   `json:"sourceUrl"`
	Cuisines             []string `json:"cuisines"`
	AnalyzedInstructions []struct {
		Steps []struct {
			Number int    `json:"number"`
			Step   string `json:"step"`
		} `json:"steps"`
	} `json:"analyzedInstructions"`
	ExtendedIngredients []struct {
		Name   string  `json:"name"`
		Amount float64 `json:"amount"`
		Unit   string  `json:"unit"`
	} `json:"extendedIngredients"`
	Nutrition struct {
		Nutrients []struct {
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
		} `json:"nutrients"`
	} `json:"nutrition"`
}

func (s *Spoonacular) Search(ctx context.Context, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("number", strconv.Itoa(s.number))
	params.Set("addRecipeInformation", "true")

	var body spoonacularSearchResponse
	if err := s.get(ctx, "/recipes/complexSearch", params, &body); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(body.Results))
	for _, r := range body.Results {
		results = append(results, Result{
			ID:          strconv.Itoa(r.ID),
			Title:       r.Title,
			Description: r.Summary,
			Tags:        append(append([]string{}, r.Cuisines...), r.DishTypes...),
			URL:         r.Image,
		})
	}
	return results, nil
}

func (s *Spoonacular) Detail(ctx context.Context, resultID string) (*models.Recipe, error) {
	params := url.Values{}
	params.Set("includeNutrition", "true")

	var r spoonacularRecipe
	if err := s.get(ctx, "/recipes/"+url.PathEscape(resultID)+"/information", params, &r); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		ID:             strconv.Itoa(r.ID),
		Title:          r.Title,
		Summary:        r.Summary,
		Image:          r.Image,
		ReadyInMinutes: r.ReadyInMinutes,
		Servings:       r.Servings,
		Difficulty:     defaultDifficulty,
		SourceURL:      r.SourceURL,
		Nutrition:      &models.Nutrition{},
	}
	if recipe.Servings == 0 {
		recipe.Servings = 1
	}
	if len(r.Cuisines) > 0 {
		recipe.Cuisine = r.Cuisines[0]
	}
	for _, block := range r.AnalyzedInstructions {
		for _, step := range block.Steps {
			recipe.Steps = append(recipe.Steps, step.Step)
		}
	}
	for _, ing := range r.ExtendedIngredients {
		recipe.Ingredients = append(recipe.Ingredients, formatIngredient(ing.Amount, ing.Unit, ing.Name))
	}
	for _, n := range r.Nutrition.Nutrients {
		switch n.Name {
		case "Calories":
			recipe.Nutrition.Calories = n.Amount
		case "Protein":
			recipe.Nutrition.Protein = n.Amount
		case "Carbohydrates":
			recipe.Nutrition.Carbohydrates = n.Amount
		case "Fat":
			recipe.Nutrition.Fat = n.Amount
		}
	}
	return recipe, nil
}

func (s *Spoonacular) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if s.apiKey == "" {
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build spoonacular request: %w", err)
	}
	req.Header.Set("X-API-Key", s.apiKey)

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("spoonacular %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, ProviderSpoonacular); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode spoonacular %s: %w", path, err)
	}
	return nil
}

// formatIngredient renders "amount unit name", skipping empty parts.
func formatIngredient(amount float64, unit, name string) string {
	parts := make([]string, 0, 3)
	if amount > 0 {
		parts = append(parts, strconv.FormatFloat(amount, 'f', -1, 64))
	}
	if unit = strings.TrimSpace(unit); unit != "" {
		parts = append(parts, unit)
	}
	if name = strings.TrimSpace(name); name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, " ")
}
