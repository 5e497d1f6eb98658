// internal/catalog/store.go

// Package catalog lists and fetches food items from the configured backend.
package catalog

import (
	"context"
	"errors"

	"food-recommender/internal/models"
)

// ErrNotFound is returned by GetItem when no item has the requested id.
var ErrNotFound = errors.New("catalog item not found")

// Store is implemented by every catalog backend.
type Store interface {
	ListItems(ctx context.Context, filter models.CatalogFilter) ([]models.Food, error)
	GetItem(ctx context.Context, id string) (*models.Food, error)
}

const defaultListLimit = 500
