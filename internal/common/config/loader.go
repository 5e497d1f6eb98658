// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultFallbackImageURL is the placeholder returned when no provider result is available.
const DefaultFallbackImageURL = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=400&h=300&fit=crop&crop=center"

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml and applies env overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env", "../../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets that are conventionally provided as bare env vars.
func overrideEmptyConfig(cfg *Config) {
	overrides := []struct {
		target *string
		env    string
	}{
		{&cfg.Providers.Unsplash.APIKey, "UNSPLASH_ACCESS_KEY"},
		{&cfg.Providers.Spoonacular.APIKey, "SPOONACULAR_API_KEY"},
		{&cfg.Enrichment.AdminKey, "ADMIN_KEY"},
		{&cfg.Trending.FeedURL, "TRENDING_FEED_URL"},
		{&cfg.Database.Postgres.User, "DB_USER"},
		{&cfg.Database.Postgres.Password, "DB_PASSWORD"},
	}
	for _, o := range overrides {
		if *o.target == "" {
			if val := os.Getenv(o.env); val != "" {
				*o.target = val
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if cfg.Catalog.Backend == "" {
		cfg.Catalog.Backend = "postgres"
	}
	if cfg.Catalog.Index == "" {
		cfg.Catalog.Index = "foods"
	}
	if cfg.Catalog.Table == "" {
		cfg.Catalog.Table = "foods"
	}
	if cfg.Preferences.CacheTTL == 0 {
		cfg.Preferences.CacheTTL = 600000
	}

	applyRecommendDefaults(&cfg.Recommend)
	applyProviderDefaults(&cfg.Providers.Unsplash, "https://api.unsplash.com", 50)
	applyProviderDefaults(&cfg.Providers.Spoonacular, "https://api.spoonacular.com", 60)

	if cfg.Trending.Timeout == 0 {
		cfg.Trending.Timeout = 3000
	}
	if cfg.Trending.Refresh == 0 {
		cfg.Trending.Refresh = int((10 * time.Minute).Milliseconds())
	}

	if cfg.Enrichment.MaxURLs == 0 {
		cfg.Enrichment.MaxURLs = 12
	}
	if cfg.Enrichment.RecipeTTL == 0 {
		cfg.Enrichment.RecipeTTL = int((24 * time.Hour).Milliseconds())
	}
	if cfg.Enrichment.FallbackTTL == 0 {
		cfg.Enrichment.FallbackTTL = int((24 * time.Hour).Milliseconds())
	}
	if cfg.Enrichment.FallbackImageURL == "" {
		cfg.Enrichment.FallbackImageURL = DefaultFallbackImageURL
	}
	if cfg.Enrichment.SweepInterval == 0 {
		cfg.Enrichment.SweepInterval = int(time.Hour.Milliseconds())
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

func applyRecommendDefaults(r *RecommendConfig) {
	setFloat := func(f *float64, def float64) {
		if *f == 0 {
			*f = def
		}
	}
	setFloat(&r.WeatherTagWeight, 2)
	setFloat(&r.WeatherCategoryBonus, 3)
	setFloat(&r.MoodTagWeight, 3)
	setFloat(&r.MoodMoodTagWeight, 4)
	setFloat(&r.MoodCategoryBonus, 3)
	setFloat(&r.PopularityNameWeight, 2)
	setFloat(&r.PopularityTagWeight, 1.5)
	setFloat(&r.RatingNeutral, 3)
	setFloat(&r.CategoryBoost, 1.5)
	setFloat(&r.TagBoostStep, 0.3)

	if r.DefaultWeights == (WeightsConfig{}) {
		r.DefaultWeights = WeightsConfig{Weather: 0.4, Mood: 0.4, Popularity: 0.2}
	}
	if r.DefaultTopN == 0 {
		r.DefaultTopN = 3
	}
}

func applyProviderDefaults(p *ProviderConfig, baseURL string, perMinute int) {
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.Timeout == 0 {
		p.Timeout = 5000
	}
	if p.RequestsPerMinute == 0 {
		p.RequestsPerMinute = perMinute
	}
	if p.Burst == 0 {
		p.Burst = 5
	}
	if p.BreakerFailures == 0 {
		p.BreakerFailures = 5
	}
	if p.BreakerCooldown == 0 {
		p.BreakerCooldown = 30000
	}
	if p.ResultsPerQuery == 0 {
		p.ResultsPerQuery = 10
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	switch cfg.Catalog.Backend {
	case "postgres":
	case "elasticsearch":
		if cfg.Database.Elasticsearch.GetURL() == "" {
			return fmt.Errorf("database.elasticsearch.addresses or url is required for the elasticsearch catalog")
		}
	default:
		return fmt.Errorf("catalog.backend must be postgres or elasticsearch, got %q", cfg.Catalog.Backend)
	}

	// preferences always live in postgres
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}

	w := cfg.Recommend.DefaultWeights
	if w.Weather < 0 || w.Mood < 0 || w.Popularity < 0 {
		return fmt.Errorf("recommend.default_weights must be non-negative")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
