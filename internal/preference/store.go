// internal/preference/store.go

// Package preference persists user personalization profiles.
package preference

import (
	"context"
	"errors"
	"fmt"

	"food-recommender/internal/models"
)

// ErrInvalidProfile is returned when a profile cannot be stored as given.
var ErrInvalidProfile = errors.New("invalid preference profile")

// Store reads and writes profiles. Get returns nil, nil when the user has no profile.
type Store interface {
	Get(ctx context.Context, userID string) (*models.UserPreferences, error)
	Put(ctx context.Context, prefs *models.UserPreferences) error
	Delete(ctx context.Context, userID string) error
}

func validate(prefs *models.UserPreferences) error {
	if prefs == nil || prefs.UserID == "" {
		return fmt.Errorf("%w: userId is required", ErrInvalidProfile)
	}
	return nil
}

// RateItem upserts a single item rating on a user's profile, creating the profile if needed.
func RateItem(ctx context.Context, s Store, userID, itemID, name string, rating int) (*models.UserPreferences, error) {
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = &models.UserPreferences{UserID: userID}
	}
	prefs.RateItem(itemID, name, rating)
	if err := s.Put(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}
