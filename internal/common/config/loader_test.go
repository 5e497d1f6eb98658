// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
app:
  name: food-recommender
camunda:
  broker_address: localhost:26500
database:
  postgres:
    host: localhost
    database: food
    user: food
  redis:
    address: localhost:6379
workers:
  score-recommendations:
    enabled: true
  enrich-food-image:
    enabled: true
    timeout: 15000
recommend:
  mood_category_bonus: 2
  default_weights:
    weather: 0.5
    mood: 0.3
    popularity: 0.2
providers:
  unsplash:
    api_key: ${TEST_UNSPLASH_KEY}
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaultsAndOverrides(t *testing.T) {
	t.Setenv("TEST_UNSPLASH_KEY", "unsplash-secret")
	t.Setenv("ADMIN_KEY", "admin-secret")

	cfg, err := LoadFromFile(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "unsplash-secret", cfg.Providers.Unsplash.APIKey)
	assert.Equal(t, "admin-secret", cfg.Enrichment.AdminKey)

	assert.Equal(t, 2.0, cfg.Recommend.MoodCategoryBonus)
	assert.Equal(t, 3.0, cfg.Recommend.WeatherCategoryBonus)
	assert.Equal(t, WeightsConfig{Weather: 0.5, Mood: 0.3, Popularity: 0.2}, cfg.Recommend.DefaultWeights)
	assert.Equal(t, 3, cfg.Recommend.DefaultTopN)

	assert.Equal(t, "postgres", cfg.Catalog.Backend)
	assert.Equal(t, 12, cfg.Enrichment.MaxURLs)
	assert.Equal(t, 24*time.Hour, GetDuration(cfg.Enrichment.RecipeTTL))
	assert.Equal(t, time.Hour, GetDuration(cfg.Enrichment.SweepInterval))
	assert.Equal(t, 10*time.Minute, GetDuration(cfg.Trending.Refresh))
	assert.Equal(t, DefaultFallbackImageURL, cfg.Enrichment.FallbackImageURL)
	assert.Equal(t, "https://api.spoonacular.com", cfg.Providers.Spoonacular.BaseURL)

	img := GetWorkerConfig(cfg, "enrich-food-image")
	assert.Equal(t, 15000, img.Timeout)
	assert.Equal(t, 5, img.MaxJobsActive)
	assert.True(t, IsWorkerEnabled(cfg, "list-moods"))
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "database:\n  redis:\n    address: localhost:6379\n",
			wantErr: "camunda.broker_address",
		},
		{
			name: "unknown catalog backend",
			body: `
camunda: {broker_address: "x:1"}
database: {redis: {address: "x:2"}, postgres: {host: h, database: d, user: u}}
catalog: {backend: mongo}
`,
			wantErr: "catalog.backend",
		},
		{
			name: "elasticsearch catalog without address",
			body: `
camunda: {broker_address: "x:1"}
database: {redis: {address: "x:2"}, postgres: {host: h, database: d, user: u}}
catalog: {backend: elasticsearch}
`,
			wantErr: "elasticsearch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestElasticsearchGetURL(t *testing.T) {
	assert.Equal(t, "http://a:9200", ElasticsearchConfig{Addresses: []string{"http://a:9200"}}.GetURL())
	assert.Equal(t, "http://u:9200", ElasticsearchConfig{URL: "http://u:9200", Addresses: []string{"http://a:9200"}}.GetURL())
	assert.Equal(t, "", ElasticsearchConfig{}.GetURL())
}
