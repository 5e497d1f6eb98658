// internal/workers/recommendation/score-recommendations/config.go
package scorerecommendations

import (
	"time"

	"food-recommender/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(appCfg *config.Config) *Config {
	wc := config.GetWorkerConfig(appCfg, TaskType)
	return &Config{
		Timeout: config.GetDuration(wc.Timeout),
	}
}
