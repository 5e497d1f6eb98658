// internal/recommend/signals.go
package recommend

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"food-recommender/internal/models"
)

// MatchedRule explains one rule's contribution to a signal score.
type MatchedRule struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

var (
	nameSplitter  = regexp.MustCompile(`[\s,]+`)
	titleSplitter = regexp.MustCompile(`[\s,.!?:;()\[\]{}"'|#/\-]+`)
)

// Scorer evaluates the weather, mood and popularity signals. It is stateless and safe for
// concurrent use.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	if cfg.Rules == nil {
		cfg.Rules = DefaultRuleTable()
	}
	return &Scorer{cfg: cfg}
}

// Weather sums the contribution of every rule matching the temperature or description.
func (s *Scorer) Weather(item models.Food, temperature float64, description string) (float64, []MatchedRule) {
	var total float64
	var matched []MatchedRule
	for _, rule := range s.cfg.Rules.MatchWeather(temperature, description) {
		subtotal := float64(CountOverlap(item.Tags, rule.Tags)) * s.cfg.WeatherTagWeight
		if containsExact(rule.Categories, item.Category) {
			subtotal += s.cfg.WeatherCategoryBonus
		}
		subtotal += baseRating(item)
		subtotal *= rule.Weight

		if subtotal > 0 {
			matched = append(matched, MatchedRule{
				Type:        "weather",
				Name:        rule.Name,
				Description: rule.Description,
				Score:       round2(subtotal),
			})
		}
		total += subtotal
	}
	return total, matched
}

// Mood scores an item against a mood. Unknown moods score as neutral.
func (s *Scorer) Mood(item models.Food, moodKey string) (float64, []MatchedRule) {
	rule := s.cfg.Rules.Mood(moodKey)

	score := float64(CountOverlap(item.Tags, rule.Tags)) * s.cfg.MoodTagWeight
	score += float64(CountOverlap(item.MoodTags, rule.MoodTags)) * s.cfg.MoodMoodTagWeight
	if containsExact(rule.Categories, item.Category) {
		score += s.cfg.MoodCategoryBonus
	}
	score += baseRating(item)

	var matched []MatchedRule
	if score > 0 {
		matched = append(matched, MatchedRule{
			Type:        "mood",
			Name:        rule.Key,
			Description: rule.Description,
			Score:       round2(score),
		})
	}
	return score, matched
}

// Popularity scores every item against a keyword corpus. An empty corpus falls back to the
// built-in seed keywords.
func (s *Scorer) Popularity(items []models.Food, corpus []string) map[string]float64 {
	if len(corpus) == 0 {
		corpus = s.cfg.Rules.PopularKeywords
	}

	scores := make(map[string]float64, len(items))
	for _, item := range items {
		nameTokens := nameSplitter.Split(strings.TrimSpace(item.Name), -1)
		keyword := float64(CountOverlap(nameTokens, corpus))*s.cfg.PopularityNameWeight +
			float64(CountOverlap(item.Tags, corpus))*s.cfg.PopularityTagWeight

		if w, ok := s.cfg.CategoryPopularity[item.Category]; ok && w > 0 {
			keyword *= w
		}
		scores[item.ID] = keyword + baseRating(item)
	}
	return scores
}

// PopularityFallback scores every item by its base rating alone.
func PopularityFallback(items []models.Food) map[string]float64 {
	scores := make(map[string]float64, len(items))
	for _, item := range items {
		scores[item.ID] = baseRating(item)
	}
	return scores
}

// CorpusFromTrending turns trending titles and tags into popularity keywords. Single-rune tokens
// are dropped since they would overlap almost any tag.
func CorpusFromTrending(items []models.TrendingItem) []string {
	seen := make(map[string]struct{})
	var corpus []string
	add := func(tok string) {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if utf8.RuneCountInString(tok) < 2 {
			return
		}
		if _, ok := seen[tok]; ok {
			return
		}
		seen[tok] = struct{}{}
		corpus = append(corpus, tok)
	}

	for _, item := range items {
		for _, tok := range titleSplitter.Split(item.Title, -1) {
			add(tok)
		}
		for _, tag := range item.Tags {
			add(tag)
		}
	}
	return corpus
}

func baseRating(item models.Food) float64 {
	switch {
	case item.Rating < 0:
		return 0
	case item.Rating > 5:
		return 5
	default:
		return item.Rating
	}
}
