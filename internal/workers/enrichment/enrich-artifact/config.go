// internal/workers/enrichment/enrich-artifact/config.go
package enrichartifact

import (
	"time"

	"food-recommender/internal/common/config"
)

type Config struct {
	TaskType string
	Timeout  time.Duration
}

// LoadConfig reads the worker settings of one of the two enrichment task types.
func LoadConfig(appCfg *config.Config, taskType string) *Config {
	return &Config{
		TaskType: taskType,
		Timeout:  config.GetDuration(config.GetWorkerConfig(appCfg, taskType).Timeout),
	}
}
