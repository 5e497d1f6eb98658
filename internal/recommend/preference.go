// internal/recommend/preference.go
package recommend

import "food-recommender/internal/models"

// Adjuster rescales a combined score with a user's preference profile.
type Adjuster struct {
	RatingNeutral float64
	CategoryBoost float64
	TagBoostStep  float64
}

func NewAdjuster(cfg Config) *Adjuster {
	return &Adjuster{
		RatingNeutral: cfg.RatingNeutral,
		CategoryBoost: cfg.CategoryBoost,
		TagBoostStep:  cfg.TagBoostStep,
	}
}

// Adjust returns the adjusted score and the total multiplier applied. Multipliers compose in a fixed
// order: stored item rating, preferred category, preferred tags. A nil profile is the identity.
func (a *Adjuster) Adjust(score float64, item models.Food, profile *models.UserPreferences) (float64, float64) {
	if profile == nil {
		return score, 1
	}

	factor := 1.0
	if r, ok := profile.ItemRatings[item.ID]; ok && r.Rating >= 1 && r.Rating <= 5 && a.RatingNeutral > 0 {
		factor *= float64(r.Rating) / a.RatingNeutral
	}
	if a.CategoryBoost > 0 && containsExact(profile.PreferredCategories, item.Category) {
		factor *= a.CategoryBoost
	}
	if n := CountOverlap(item.Tags, profile.PreferredTags); n > 0 && a.TagBoostStep > 0 {
		factor *= 1 + float64(n)*a.TagBoostStep
	}
	return score * factor, factor
}
