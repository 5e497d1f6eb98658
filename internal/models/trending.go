// internal/models/trending.go
package models

// TrendingItem is one entry of the optional trending-content feed.
type TrendingItem struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}
