// internal/trending/feed.go

// Package trending reads the trending-content feed used by the popularity signal.
package trending

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	httpclient "food-recommender/internal/common/http"
	"food-recommender/internal/models"

	"github.com/mmcdole/gofeed"
)

const maxFeedBytes = 4 << 20

// FeedSource fetches an RSS or Atom feed and turns its entries into trending items. A successful
// read is reused for refresh; failures are never cached.
type FeedSource struct {
	url     string
	client  *httpclient.Client
	parser  *gofeed.Parser
	refresh time.Duration
	now     func() time.Time

	mu        sync.Mutex
	items     []models.TrendingItem
	fetchedAt time.Time
}

func NewFeedSource(url string, client *httpclient.Client, refresh time.Duration) *FeedSource {
	return &FeedSource{
		url:     url,
		client:  client,
		parser:  gofeed.NewParser(),
		refresh: refresh,
		now:     time.Now,
	}
}

func (s *FeedSource) ListTrending(ctx context.Context) ([]models.TrendingItem, error) {
	s.mu.Lock()
	if s.items != nil && s.refresh > 0 && s.now().Sub(s.fetchedAt) < s.refresh {
		items := s.items
		s.mu.Unlock()
		return items, nil
	}
	s.mu.Unlock()

	items, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.items = items
	s.fetchedAt = s.now()
	s.mu.Unlock()
	return items, nil
}

func (s *FeedSource) fetch(ctx context.Context) ([]models.TrendingItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9")

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch trending feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch trending feed: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read trending feed: %w", err)
	}

	feed, err := s.parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse trending feed: %w", err)
	}

	items := make([]models.TrendingItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Title == "" && len(item.Categories) == 0 {
			continue
		}
		items = append(items, models.TrendingItem{Title: item.Title, Tags: item.Categories})
	}
	return items, nil
}
