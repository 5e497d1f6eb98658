// internal/trending/feed_test.go
package trending

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	httpclient "food-recommender/internal/common/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Trending food</title>
    <item>
      <title>Easy Tiramisu at home</title>
      <category>dessert</category>
      <category>italian</category>
    </item>
    <item>
      <title>김치찌개 황금레시피</title>
    </item>
    <item>
      <description>no title, no tags</description>
    </item>
  </channel>
</rss>`

func newFeedServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFeedSource_ListTrending(t *testing.T) {
	srv, _ := newFeedServer(t, http.StatusOK, rssFeed)
	src := NewFeedSource(srv.URL, httpclient.NewClient(httpclient.Options{Name: "trending"}), 0)

	items, err := src.ListTrending(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Easy Tiramisu at home", items[0].Title)
	assert.Equal(t, []string{"dessert", "italian"}, items[0].Tags)
	assert.Equal(t, "김치찌개 황금레시피", items[1].Title)
}

func TestFeedSource_ReusesRecentRead(t *testing.T) {
	srv, hits := newFeedServer(t, http.StatusOK, rssFeed)
	src := NewFeedSource(srv.URL, httpclient.NewClient(httpclient.Options{Name: "trending"}), time.Minute)
	now := time.Now()
	src.now = func() time.Time { return now }

	_, err := src.ListTrending(context.Background())
	require.NoError(t, err)
	_, err = src.ListTrending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	now = now.Add(2 * time.Minute)
	_, err = src.ListTrending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestFeedSource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, ""},
		{"server error", http.StatusBadGateway, ""},
		{"not a feed", http.StatusOK, "plain text, not xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newFeedServer(t, tt.status, tt.body)
			src := NewFeedSource(srv.URL, httpclient.NewClient(httpclient.Options{Name: "trending"}), time.Minute)

			items, err := src.ListTrending(context.Background())
			assert.Error(t, err)
			assert.Nil(t, items)
		})
	}
}
