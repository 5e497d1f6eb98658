// internal/models/preference.go
package models

import "time"

// ItemRating is a user's explicit rating for a catalog item.
type ItemRating struct {
	Name   string `json:"name"`
	Rating int    `json:"rating"`
}

// UserPreferences is the personalization profile of one user.
type UserPreferences struct {
	UserID              string                `json:"userId"`
	PreferredCategories []string              `json:"preferredCategories"`
	PreferredTags       []string              `json:"preferredTags"`
	ItemRatings         map[string]ItemRating `json:"itemRatings"`
	UpdatedAt           time.Time             `json:"updatedAt,omitempty"`
}

// RateItem records or replaces a rating, clamping it to 1..5.
func (p *UserPreferences) RateItem(itemID, name string, rating int) {
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	if p.ItemRatings == nil {
		p.ItemRatings = make(map[string]ItemRating)
	}
	p.ItemRatings[itemID] = ItemRating{Name: name, Rating: rating}
}
