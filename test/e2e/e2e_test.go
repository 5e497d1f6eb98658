// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"food-recommender/internal/catalog"
	commonerrors "food-recommender/internal/common/errors"
	httpclient "food-recommender/internal/common/http"
	"food-recommender/internal/common/logger"
	"food-recommender/internal/enrichment"
	"food-recommender/internal/preference"
	"food-recommender/internal/recommend"

	enrichartifact "food-recommender/internal/workers/enrichment/enrich-artifact"
	purgeenrichmentcache "food-recommender/internal/workers/enrichment/purge-enrichment-cache"
	listmoods "food-recommender/internal/workers/recommendation/list-moods"
	scorerecommendations "food-recommender/internal/workers/recommendation/score-recommendations"
	updatepreferences "food-recommender/internal/workers/preference/update-preferences"
)

const adminKey = "e2e-admin"

var foodColumns = []string{
	"id", "name", "category", "description", "price", "image", "tags", "mood_tags", "rating",
	"is_available", "created_at", "updated_at",
}

// TestEnvironment wires every worker the way cmd/worker-manager does, with in-process backends.
type TestEnvironment struct {
	sqlMock  sqlmock.Sqlmock
	searches *atomic.Int32
	created  time.Time

	prefs  *updatepreferences.Handler
	score  *scorerecommendations.Handler
	moods  *listmoods.Handler
	enrich *enrichartifact.Handler
	purge  *purgeenrichmentcache.Handler
}

func setupEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	log := logger.NewTestLogger(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &TestEnvironment{
		sqlMock:  mock,
		searches: &atomic.Int32{},
		created:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	unsplash := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.searches.Add(1)
		q := r.URL.Query().Get("query")
		slug := strings.ReplaceAll(q, " ", "-")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [
			{"id": "` + slug + `-1", "alt_description": "` + q + `", "urls": {"small": "https://images.example/` + slug + `-1"}},
			{"id": "` + slug + `-2", "alt_description": "` + q + `", "urls": {"small": "https://images.example/` + slug + `-2"}}
		]}`))
	}))
	t.Cleanup(unsplash.Close)

	catalogStore := catalog.NewPostgresStore(db, "foods")
	prefStore := preference.NewRedisStore(rdb, time.Hour)
	engine := recommend.NewEngine(recommend.DefaultConfig(), catalogStore, prefStore, nil, log)

	provider := enrichment.NewUnsplash(
		httpclient.NewClient(httpclient.Options{Name: enrichment.ProviderUnsplash, Timeout: 2 * time.Second}),
		unsplash.URL, "e2e-key", 2,
	)
	imageCache := enrichment.NewCache(provider, enrichment.NewRedisStore(rdb), catalogStore, enrichment.Options{
		MaxURLs:     4,
		FallbackURL: "https://images.example/fallback",
		FallbackTTL: time.Hour,
		AdminKey:    adminKey,
	}, log)

	env.prefs = updatepreferences.NewHandler(&updatepreferences.Config{Timeout: 5 * time.Second}, prefStore, log)
	env.score = scorerecommendations.NewHandler(&scorerecommendations.Config{Timeout: 5 * time.Second}, engine, log)
	env.moods = listmoods.NewHandler(&listmoods.Config{Timeout: 5 * time.Second}, engine, log)
	env.enrich = enrichartifact.NewHandler(&enrichartifact.Config{TaskType: enrichartifact.TaskTypeImage, Timeout: 5 * time.Second}, imageCache, log)
	env.purge = purgeenrichmentcache.NewHandler(&purgeenrichmentcache.Config{Timeout: 5 * time.Second}, log, imageCache)
	return env
}

func (env *TestEnvironment) expectCatalogList() {
	env.sqlMock.ExpectQuery(`SELECT .+ FROM "foods" WHERE is_available = TRUE`).
		WillReturnRows(sqlmock.NewRows(foodColumns).
			AddRow("food-1", "김치찌개", "한식", "spicy stew", int64(9000), nil, "{국물,매운맛}", "{스트레스해소}", 4.5, true, env.created, env.created).
			AddRow("food-2", "샐러드", "양식", nil, nil, nil, "{가벼운,건강식}", nil, 3.5, true, env.created, env.created).
			AddRow("food-3", "파스타", "양식", nil, int64(12000), nil, "{면요리}", nil, 4.0, true, env.created, env.created))
}

func (env *TestEnvironment) expectCatalogGet(id, name, category string) {
	env.sqlMock.ExpectQuery(`SELECT .+ WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(foodColumns).
			AddRow(id, name, category, nil, nil, nil, "{}", nil, 4.0, true, env.created, env.created))
}

func TestFullE2E(t *testing.T) {
	env := setupEnvironment(t)
	ctx := context.Background()

	t.Log("Step 1: store a preference profile")
	saved, err := env.prefs.Execute(ctx, &updatepreferences.Input{
		Action:              updatepreferences.ActionPut,
		UserID:              "user-7",
		PreferredCategories: []string{"양식"},
		PreferredTags:       []string{"면요리"},
	})
	require.NoError(t, err)
	assert.True(t, saved.Found)

	rated, err := env.prefs.Execute(ctx, &updatepreferences.Input{
		Action:   updatepreferences.ActionRate,
		UserID:   "user-7",
		ItemID:   "food-3",
		ItemName: "파스타",
		Rating:   5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, rated.Preferences.ItemRatings["food-3"].Rating)
	assert.Equal(t, []string{"양식"}, rated.Preferences.PreferredCategories)

	t.Log("Step 2: rank catalog items for a cold, rainy, stressed user")
	env.expectCatalogList()
	temperature := 3.0
	ranked, err := env.score.Execute(ctx, &scorerecommendations.Input{
		Context: recommend.RequestContext{
			Temperature:        &temperature,
			WeatherDescription: "light rain",
			Mood:               "stressed",
			UserID:             "user-7",
		},
		Signals: []recommend.Signal{recommend.SignalWeather, recommend.SignalMood, recommend.SignalPopularity},
		TopN:    2,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ranked.RequestID)
	assert.Equal(t, recommend.ModeWeighted, ranked.Mode)
	assert.Equal(t, 3, ranked.TotalCandidates)
	assert.True(t, ranked.Personalized)
	assert.False(t, ranked.TrendingUsed)
	require.Len(t, ranked.Recommendations, 2)
	assert.GreaterOrEqual(t, ranked.Recommendations[0].Scores.Final, ranked.Recommendations[1].Scores.Final)

	t.Log("Step 3: list the supported moods")
	moods, err := env.moods.Execute(ctx, &listmoods.Input{})
	require.NoError(t, err)
	assert.NotEmpty(t, moods.Moods)

	t.Log("Step 4: enrich the top item with an image, then hit the cache")
	top := ranked.Recommendations[0].Candidate
	env.expectCatalogGet(top.ID, top.Name, top.Category)
	env.expectCatalogGet(top.ID, top.Name, top.Category)

	enrichInput := &enrichartifact.Input{ItemID: top.ID}
	first, err := env.enrich.Execute(ctx, enrichInput)
	require.NoError(t, err)
	require.NotNil(t, first.Artifact)
	assert.True(t, strings.HasPrefix(first.Artifact.URL, "https://images.example/"), first.Artifact.URL)
	assert.False(t, first.Artifact.Cached)
	searches := env.searches.Load()
	assert.Positive(t, searches)

	second, err := env.enrich.Execute(ctx, enrichInput)
	require.NoError(t, err)
	assert.True(t, second.Artifact.Cached)
	assert.Equal(t, searches, env.searches.Load(), "cached lookups must not call the provider")

	t.Log("Step 5: purge requires the admin key")
	purgeInput := &purgeenrichmentcache.Input{
		Provider: enrichment.ProviderUnsplash,
		Action:   purgeenrichmentcache.ActionPurge,
		AdminKey: "wrong",
	}
	_, err = env.purge.Execute(ctx, purgeInput)
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeForbidden, commonerrors.Normalize(err).Code)

	purgeInput.AdminKey = adminKey
	purged, err := env.purge.Execute(ctx, purgeInput)
	require.NoError(t, err)
	assert.Equal(t, 1, purged.Deleted)

	t.Log("Step 6: delete the profile")
	_, err = env.prefs.Execute(ctx, &updatepreferences.Input{Action: updatepreferences.ActionDelete, UserID: "user-7"})
	require.NoError(t, err)

	gone, err := env.prefs.Execute(ctx, &updatepreferences.Input{Action: updatepreferences.ActionGet, UserID: "user-7"})
	require.NoError(t, err)
	assert.False(t, gone.Found)

	assert.NoError(t, env.sqlMock.ExpectationsWereMet())
}

func TestEnrichUnknownItem(t *testing.T) {
	env := setupEnvironment(t)

	env.sqlMock.ExpectQuery(`SELECT .+ WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(foodColumns))

	_, err := env.enrich.Execute(context.Background(), &enrichartifact.Input{ItemID: "ghost"})
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeItemNotFound, commonerrors.Normalize(err).Code)
	assert.Zero(t, env.searches.Load())
}
