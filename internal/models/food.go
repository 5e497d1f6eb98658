// internal/models/food.go
package models

import "time"

// Catalog categories.
const (
	CategoryKorean   = "한식"
	CategoryChinese  = "중식"
	CategoryJapanese = "일식"
	CategoryWestern  = "양식"
	CategoryDessert  = "디저트"
)

// Food is a catalog item. It is the candidate scored by the recommendation engine and the subject of
// image and recipe enrichment.
type Food struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Price       int       `json:"price,omitempty"`
	Image       string    `json:"image,omitempty"`
	Tags        []string  `json:"tags"`
	MoodTags    []string  `json:"moodTags,omitempty"`
	Rating      float64   `json:"rating"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// FoodType narrows a catalog listing to desserts or to main dishes.
type FoodType string

const (
	FoodTypeAny     FoodType = ""
	FoodTypeMain    FoodType = "main"
	FoodTypeDessert FoodType = "dessert"
)

// CatalogFilter is the query accepted by catalog stores.
type CatalogFilter struct {
	IDs           []string `json:"ids,omitempty"`
	FoodType      FoodType `json:"foodType,omitempty"`
	AvailableOnly bool     `json:"availableOnly"`
	Limit         int      `json:"limit,omitempty"`
}

// Matches applies the filter to a single item. Stores that cannot push a condition down use it.
func (f CatalogFilter) Matches(item Food) bool {
	if f.AvailableOnly && !item.IsAvailable {
		return false
	}
	switch f.FoodType {
	case FoodTypeDessert:
		if item.Category != CategoryDessert {
			return false
		}
	case FoodTypeAny:
	default:
		if item.Category == CategoryDessert {
			return false
		}
	}
	if len(f.IDs) > 0 {
		for _, id := range f.IDs {
			if id == item.ID {
				return true
			}
		}
		return false
	}
	return true
}
