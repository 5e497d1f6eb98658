// internal/enrichment/unsplash.go
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

const ProviderUnsplash = "unsplash"

// Unsplash searches food photos.
type Unsplash struct {
	client    *httpclient.Client
	baseURL   string
	accessKey string
	perPage   int
}

func NewUnsplash(client *httpclient.Client, baseURL, accessKey string, perPage int) *Unsplash {
	if perPage <= 0 {
		perPage = 10
	}
	return &Unsplash{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		perPage:   perPage,
	}
}

func (u *Unsplash) Name() string { return ProviderUnsplash }

func (u *Unsplash) Queries(item models.Food) []string { return ImageQueries(item) }

type unsplashSearchResponse struct {
	Results []struct {
		ID             string `json:"id"`
		Description    string `json:"description"`
		AltDescription string `json:"alt_description"`
		Tags           []struct {
			Title string `json:"title"`
		} `json:"tags"`
		URLs struct {
			Small   string `json:"small"`
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

func (u *Unsplash) Search(ctx context.Context, query string) ([]Result, error) {
	if u.accessKey == "" {
		return nil, ErrNotConfigured
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(u.perPage))
	params.Set("orientation", "landscape")
	params.Set("content_filter", "high")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build unsplash request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := u.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("unsplash search: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, ProviderUnsplash); err != nil {
		return nil, err
	}

	var body unsplashSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode unsplash search: %w", err)
	}

	results := make([]Result, 0, len(body.Results))
	for _, r := range body.Results {
		title := r.AltDescription
		if title == "" {
			title = r.Description
		}
		tags := make([]string, 0, len(r.Tags))
		for _, t := range r.Tags {
			tags = append(tags, t.Title)
		}
		results = append(results, Result{
			ID:          r.ID,
			Title:       title,
			Description: r.Description,
			Tags:        tags,
			URL:         r.URLs.Small,
		})
	}
	return results, nil
}

// checkStatus maps quota responses to ErrRateLimited and any other non-200 status to an error.
func checkStatus(resp *http.Response, provider string) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusPaymentRequired, resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s returned %d", ErrRateLimited, provider, resp.StatusCode)
	case resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-Ratelimit-Remaining") == "0":
		return fmt.Errorf("%w: %s quota exhausted", ErrRateLimited, provider)
	default:
		return fmt.Errorf("%s returned status %d", provider, resp.StatusCode)
	}
}
