// internal/workers/enrichment/purge-enrichment-cache/config.go
package purgeenrichmentcache

import (
	"time"

	"food-recommender/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(appCfg, TaskType).Timeout),
	}
}
