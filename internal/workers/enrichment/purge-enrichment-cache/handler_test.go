// internal/workers/enrichment/purge-enrichment-cache/handler_test.go
package purgeenrichmentcache

import (
	"context"
	"testing"
	"time"

	commonerrors "food-recommender/internal/common/errors"
	"food-recommender/internal/common/logger"
	"food-recommender/internal/enrichment"
	"food-recommender/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminKey = "s3cret"

type twoResultProvider struct{}

func (twoResultProvider) Name() string { return "photos" }

func (twoResultProvider) Queries(item models.Food) []string { return []string{item.Name} }

func (twoResultProvider) Search(context.Context, string) ([]enrichment.Result, error) {
	return []enrichment.Result{
		{ID: "r1", Title: "first", URL: "https://img/1"},
		{ID: "r2", Title: "second", URL: "https://img/2"},
	}, nil
}

type oneItem struct{}

func (oneItem) GetItem(_ context.Context, id string) (*models.Food, error) {
	return &models.Food{ID: id, Name: "bibimbap"}, nil
}

func setup(t *testing.T, key string) (*Handler, *enrichment.Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cache := enrichment.NewCache(twoResultProvider{}, enrichment.NewRedisStore(client), oneItem{}, enrichment.Options{
		AdminKey: key,
	}, logger.NewNoOpLogger())

	h := NewHandler(&Config{Timeout: 5 * time.Second}, logger.NewTestLogger(t), cache)
	return h, cache, mr
}

func TestHandler_Override(t *testing.T) {
	h, cache, _ := setup(t, adminKey)
	ctx := context.Background()

	_, err := cache.Lookup(ctx, "food-1")
	require.NoError(t, err)

	out, err := h.Execute(ctx, &Input{Provider: "photos", Action: ActionOverride, AdminKey: adminKey, ItemID: "food-1", URL: "https://pinned"})
	require.NoError(t, err)
	require.NotNil(t, out.Entry)
	assert.Equal(t, "https://pinned", out.Entry.PrimaryURL)

	art, err := cache.Lookup(ctx, "food-1")
	require.NoError(t, err)
	assert.Equal(t, "https://pinned", art.URL)
}

func TestHandler_Blacklist(t *testing.T) {
	h, cache, _ := setup(t, adminKey)
	ctx := context.Background()

	_, err := cache.Lookup(ctx, "food-1")
	require.NoError(t, err)

	out, err := h.Execute(ctx, &Input{Provider: "photos", Action: ActionBlacklist, AdminKey: adminKey, ItemID: "food-1", ResultID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, out.Entry.Blacklist)
	assert.Equal(t, "https://img/2", out.Entry.PrimaryURL)
}

func TestHandler_Purge(t *testing.T) {
	h, cache, mr := setup(t, adminKey)
	ctx := context.Background()

	_, err := cache.Lookup(ctx, "food-1")
	require.NoError(t, err)
	_, err = cache.Lookup(ctx, "food-2")
	require.NoError(t, err)

	out, err := h.Execute(ctx, &Input{Provider: "photos", Action: ActionPurge, AdminKey: adminKey})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Deleted)
	assert.False(t, mr.Exists("enrich:photos:food-1"))
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		input    *Input
		wantCode commonerrors.ErrorCode
	}{
		{"wrong key", adminKey, &Input{Provider: "photos", Action: ActionPurge, AdminKey: "guess"}, commonerrors.ErrCodeForbidden},
		{"admin key unset", "", &Input{Provider: "photos", Action: ActionPurge, AdminKey: ""}, commonerrors.ErrCodeForbidden},
		{"no entry to override", adminKey, &Input{Provider: "photos", Action: ActionOverride, AdminKey: adminKey, ItemID: "food-9"}, commonerrors.ErrCodeEntryNotFound},
		{"unknown provider", adminKey, &Input{Provider: "videos", Action: ActionPurge, AdminKey: adminKey}, commonerrors.ErrCodeValidationFailed},
		{"unknown action", adminKey, &Input{Provider: "photos", Action: "rebuild", AdminKey: adminKey}, commonerrors.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, _ := setup(t, tt.key)
			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, commonerrors.Normalize(err).Code)
		})
	}
}

func TestHandler_ParseInput(t *testing.T) {
	h, _, _ := setup(t, adminKey)

	in, err := h.parseInput(`{"provider": "photos", "action": "purge", "adminKey": "k"}`)
	require.NoError(t, err)
	assert.Equal(t, ActionPurge, in.Action)

	for _, vars := range []string{
		`{"provider": "photos", "action": "purge"}`,
		`{"provider": "photos", "action": "drop", "adminKey": "k"}`,
		`{"provider": "photos", "action": "blacklist", "adminKey": "k", "itemId": "food-1"}`,
		`{"provider": "photos", "action": "override", "adminKey": "k"}`,
	} {
		_, err := h.parseInput(vars)
		require.Error(t, err, vars)
		assert.Equal(t, commonerrors.ErrCodeValidationFailed, commonerrors.Normalize(err).Code, vars)
	}
}
