// internal/enrichment/provider.go
package enrichment

import (
	"context"
	"errors"

	httpclient "food-recommender/internal/common/http"
	"food-recommender/internal/models"
)

var (
	// ErrRateLimited is returned by a provider that refused the call for quota reasons.
	ErrRateLimited = errors.New("provider rate limited")
	// ErrNotConfigured is returned by a provider without credentials.
	ErrNotConfigured = errors.New("provider not configured")
)

// Result is one search hit of an external provider.
type Result struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	URL         string
}

// Provider searches an external artifact source.
type Provider interface {
	Name() string
	// Queries returns the ordered query variants tried for an item.
	Queries(item models.Food) []string
	Search(ctx context.Context, query string) ([]Result, error)
}

// DetailProvider is implemented by providers that expose a detail record per result.
type DetailProvider interface {
	Detail(ctx context.Context, resultID string) (*models.Recipe, error)
}

// stopsChain reports whether a provider error makes further query variants pointless.
func stopsChain(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrNotConfigured) ||
		errors.Is(err, httpclient.ErrRateLimited) ||
		errors.Is(err, httpclient.ErrCircuitOpen)
}
