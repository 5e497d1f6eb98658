// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig               `mapstructure:"app"`
	Camunda     CamundaConfig           `mapstructure:"camunda"`
	Database    DatabaseConfig          `mapstructure:"database"`
	Workers     map[string]WorkerConfig `mapstructure:"workers"`
	Catalog     CatalogConfig           `mapstructure:"catalog"`
	Preferences PreferencesConfig       `mapstructure:"preferences"`
	Recommend   RecommendConfig         `mapstructure:"recommend"`
	Providers   ProvidersConfig         `mapstructure:"providers"`
	Trending    TrendingConfig          `mapstructure:"trending"`
	Enrichment  EnrichmentConfig        `mapstructure:"enrichment"`
	Logging     LoggingConfig           `mapstructure:"logging"`
	Server      ServerConfig            `mapstructure:"server"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Domain Configuration Sections ---

// CatalogConfig selects the catalog backend used to list and fetch candidates.
type CatalogConfig struct {
	Backend string `mapstructure:"backend"` // postgres | elasticsearch
	Index   string `mapstructure:"index"`
	Table   string `mapstructure:"table"`
}

// PreferencesConfig controls the cache in front of the preference table.
type PreferencesConfig struct {
	CacheTTL int `mapstructure:"cache_ttl"` // milliseconds
}

// RecommendConfig holds every tunable scoring constant.
type RecommendConfig struct {
	WeatherTagWeight     float64            `mapstructure:"weather_tag_weight"`
	WeatherCategoryBonus float64            `mapstructure:"weather_category_bonus"`
	MoodTagWeight        float64            `mapstructure:"mood_tag_weight"`
	MoodMoodTagWeight    float64            `mapstructure:"mood_mood_tag_weight"`
	MoodCategoryBonus    float64            `mapstructure:"mood_category_bonus"`
	PopularityNameWeight float64            `mapstructure:"popularity_name_weight"`
	PopularityTagWeight  float64            `mapstructure:"popularity_tag_weight"`
	CategoryPopularity   map[string]float64 `mapstructure:"category_popularity"`
	RatingNeutral        float64            `mapstructure:"rating_neutral"`
	CategoryBoost        float64            `mapstructure:"category_boost"`
	TagBoostStep         float64            `mapstructure:"tag_boost_step"`
	DefaultWeights       WeightsConfig      `mapstructure:"default_weights"`
	DefaultTopN          int                `mapstructure:"default_top_n"`
}

type WeightsConfig struct {
	Weather    float64 `mapstructure:"weather"`
	Mood       float64 `mapstructure:"mood"`
	Popularity float64 `mapstructure:"popularity"`
}

// ProvidersConfig holds the external artifact providers.
type ProvidersConfig struct {
	Unsplash    ProviderConfig `mapstructure:"unsplash"`
	Spoonacular ProviderConfig `mapstructure:"spoonacular"`
}

type ProviderConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	APIKey            string `mapstructure:"api_key"`
	Timeout           int    `mapstructure:"timeout"` // milliseconds
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	Burst             int    `mapstructure:"burst"`
	BreakerFailures   int    `mapstructure:"breaker_failures"`
	BreakerCooldown   int    `mapstructure:"breaker_cooldown"` // milliseconds
	ResultsPerQuery   int    `mapstructure:"results_per_query"`
}

// TrendingConfig points at the optional trending-content feed.
type TrendingConfig struct {
	FeedURL string `mapstructure:"feed_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
	Refresh int    `mapstructure:"refresh"` // milliseconds a successful read is reused
}

// EnrichmentConfig holds cache-aside settings shared by the image and recipe caches.
type EnrichmentConfig struct {
	MaxURLs          int    `mapstructure:"max_urls"`
	ImageTTL         int    `mapstructure:"image_ttl"`    // milliseconds, 0 = never expires
	RecipeTTL        int    `mapstructure:"recipe_ttl"`   // milliseconds
	FallbackTTL      int    `mapstructure:"fallback_ttl"` // milliseconds
	FallbackImageURL string `mapstructure:"fallback_image_url"`
	SweepInterval    int    `mapstructure:"sweep_interval"` // milliseconds
	AdminKey         string `mapstructure:"admin_key"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds the health/metrics listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}
