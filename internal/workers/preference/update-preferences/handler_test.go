// internal/workers/preference/update-preferences/handler_test.go
package updatepreferences

import (
	"context"
	"errors"
	"testing"
	"time"

	commonerrors "food-recommender/internal/common/errors"
	"food-recommender/internal/common/logger"
	"food-recommender/internal/models"
	"food-recommender/internal/preference"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (*Handler, preference.Store) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := preference.NewRedisStore(client, time.Hour)
	h := NewHandler(&Config{Timeout: 5 * time.Second}, store, logger.NewTestLogger(t))
	h.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return h, store
}

func TestHandler_PutThenGet(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := context.Background()

	out, err := h.Execute(ctx, &Input{
		Action:              ActionPut,
		UserID:              "user-1",
		PreferredCategories: []string{models.CategoryKorean},
		PreferredTags:       []string{"매운"},
	})
	require.NoError(t, err)
	assert.True(t, out.Found)

	got, err := h.Execute(ctx, &Input{Action: ActionGet, UserID: "user-1"})
	require.NoError(t, err)
	require.True(t, got.Found)
	assert.Equal(t, []string{models.CategoryKorean}, got.Preferences.PreferredCategories)
	assert.True(t, got.Preferences.UpdatedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestHandler_PutKeepsRatings(t *testing.T) {
	h, store := newTestHandler(t)
	ctx := context.Background()

	_, err := h.Execute(ctx, &Input{Action: ActionRate, UserID: "user-1", ItemID: "food-1", ItemName: "김치찌개", Rating: 4})
	require.NoError(t, err)
	_, err = h.Execute(ctx, &Input{Action: ActionPut, UserID: "user-1", PreferredTags: []string{"국물"}})
	require.NoError(t, err)

	prefs, err := store.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, prefs.ItemRatings["food-1"].Rating)
	assert.Equal(t, []string{"국물"}, prefs.PreferredTags)
}

func TestHandler_RateAndDelete(t *testing.T) {
	h, store := newTestHandler(t)
	ctx := context.Background()

	out, err := h.Execute(ctx, &Input{Action: ActionRate, UserID: "user-2", ItemID: "food-7", ItemName: "비빔밥", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, models.ItemRating{Name: "비빔밥", Rating: 5}, out.Preferences.ItemRatings["food-7"])

	_, err = h.Execute(ctx, &Input{Action: ActionDelete, UserID: "user-2"})
	require.NoError(t, err)

	prefs, err := store.Get(ctx, "user-2")
	require.NoError(t, err)
	assert.Nil(t, prefs)

	missing, err := h.Execute(ctx, &Input{Action: ActionGet, UserID: "user-2"})
	require.NoError(t, err)
	assert.False(t, missing.Found)
	assert.Nil(t, missing.Preferences)
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (*models.UserPreferences, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Put(context.Context, *models.UserPreferences) error {
	return errors.New("connection refused")
}

func (brokenStore) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

func TestHandler_Errors(t *testing.T) {
	h := NewHandler(&Config{Timeout: time.Second}, brokenStore{}, logger.NewTestLogger(t))

	tests := []struct {
		name     string
		input    *Input
		wantCode commonerrors.ErrorCode
	}{
		{"store down on get", &Input{Action: ActionGet, UserID: "u"}, commonerrors.ErrCodePreferenceStoreFailed},
		{"store down on delete", &Input{Action: ActionDelete, UserID: "u"}, commonerrors.ErrCodePreferenceStoreFailed},
		{"rating out of range", &Input{Action: ActionRate, UserID: "u", ItemID: "x", Rating: 9}, commonerrors.ErrCodeValidationFailed},
		{"missing user", &Input{Action: ActionGet}, commonerrors.ErrCodeValidationFailed},
		{"unknown action", &Input{Action: "merge", UserID: "u"}, commonerrors.ErrCodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, commonerrors.Normalize(err).Code)
		})
	}
}

func TestHandler_ParseInput(t *testing.T) {
	h, _ := newTestHandler(t)

	in, err := h.parseInput(`{"action": "rate", "userId": "u", "itemId": "food-1", "rating": 3}`)
	require.NoError(t, err)
	assert.Equal(t, 3, in.Rating)

	for _, vars := range []string{
		`{"action": "rate", "userId": "u", "itemId": "food-1"}`,
		`{"action": "rate", "userId": "u", "itemId": "food-1", "rating": 6}`,
		`{"action": "get"}`,
		`{"action": "wipe", "userId": "u"}`,
	} {
		_, err := h.parseInput(vars)
		require.Error(t, err, vars)
		assert.Equal(t, commonerrors.ErrCodeValidationFailed, commonerrors.Normalize(err).Code, vars)
	}
}
