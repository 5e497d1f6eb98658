// internal/recommend/config.go
package recommend

import (
	"food-recommender/internal/common/config"
	"food-recommender/internal/models"
)

// Weights scale each signal in weighted mode. They need not sum to 1.
type Weights struct {
	Weather    float64 `json:"weather"`
	Mood       float64 `json:"mood"`
	Popularity float64 `json:"popularity"`
}

// Config carries every tunable scoring constant.
type Config struct {
	WeatherTagWeight     float64
	WeatherCategoryBonus float64
	MoodTagWeight        float64
	MoodMoodTagWeight    float64
	MoodCategoryBonus    float64
	PopularityNameWeight float64
	PopularityTagWeight  float64
	CategoryPopularity   map[string]float64

	RatingNeutral float64
	CategoryBoost float64
	TagBoostStep  float64

	DefaultWeights Weights
	DefaultTopN    int

	Rules *RuleTable
}

func DefaultConfig() Config {
	return Config{
		WeatherTagWeight:     2,
		WeatherCategoryBonus: 3,
		MoodTagWeight:        3,
		MoodMoodTagWeight:    4,
		MoodCategoryBonus:    3,
		PopularityNameWeight: 2,
		PopularityTagWeight:  1.5,
		CategoryPopularity: map[string]float64{
			models.CategoryKorean:   1.2,
			models.CategoryWestern:  1.1,
			models.CategoryJapanese: 1.0,
			models.CategoryChinese:  1.0,
			models.CategoryDessert:  1.3,
		},
		RatingNeutral:  3,
		CategoryBoost:  1.5,
		TagBoostStep:   0.3,
		DefaultWeights: Weights{Weather: 0.4, Mood: 0.4, Popularity: 0.2},
		DefaultTopN:    3,
		Rules:          DefaultRuleTable(),
	}
}

// ConfigFromSettings overlays loaded settings on the defaults. Zero values keep the default.
func ConfigFromSettings(s config.RecommendConfig) Config {
	cfg := DefaultConfig()
	set := func(dst *float64, v float64) {
		if v > 0 {
			*dst = v
		}
	}
	set(&cfg.WeatherTagWeight, s.WeatherTagWeight)
	set(&cfg.WeatherCategoryBonus, s.WeatherCategoryBonus)
	set(&cfg.MoodTagWeight, s.MoodTagWeight)
	set(&cfg.MoodMoodTagWeight, s.MoodMoodTagWeight)
	set(&cfg.MoodCategoryBonus, s.MoodCategoryBonus)
	set(&cfg.PopularityNameWeight, s.PopularityNameWeight)
	set(&cfg.PopularityTagWeight, s.PopularityTagWeight)
	set(&cfg.RatingNeutral, s.RatingNeutral)
	set(&cfg.CategoryBoost, s.CategoryBoost)
	set(&cfg.TagBoostStep, s.TagBoostStep)

	for k, v := range s.CategoryPopularity {
		cfg.CategoryPopularity[k] = v
	}
	if s.DefaultWeights != (config.WeightsConfig{}) {
		cfg.DefaultWeights = Weights{
			Weather:    s.DefaultWeights.Weather,
			Mood:       s.DefaultWeights.Mood,
			Popularity: s.DefaultWeights.Popularity,
		}
	}
	if s.DefaultTopN > 0 {
		cfg.DefaultTopN = s.DefaultTopN
	}
	return cfg
}
