// internal/recommend/ranker.go
package recommend

import (
	"math"
	"sort"

	"food-recommender/internal/models"
)

// Mode selects how signal scores are combined.
type Mode string

const (
	ModeSimple   Mode = "simple"
	ModeWeighted Mode = "weighted"
)

// Signal names one independent scoring dimension.
type Signal string

const (
	SignalWeather    Signal = "weather"
	SignalMood       Signal = "mood"
	SignalPopularity Signal = "popularity"
)

// ScoreBreakdown is the per-candidate score report. Values are rounded to 2 decimals on output.
type ScoreBreakdown struct {
	Weather              float64       `json:"weather"`
	Mood                 float64       `json:"mood"`
	Popularity           float64       `json:"popularity"`
	Combined             float64       `json:"combined"`
	PreferenceAdjustment float64       `json:"preferenceAdjustment"`
	Final                float64       `json:"final"`
	MatchedRules         []MatchedRule `json:"matchedRules,omitempty"`
}

// Scored pairs a candidate with its breakdown.
type Scored struct {
	Candidate models.Food    `json:"candidate"`
	Scores    ScoreBreakdown `json:"scores"`
}

// Combine folds the requested signal scores into one value.
func Combine(b ScoreBreakdown, signals []Signal, mode Mode, w Weights) float64 {
	var total float64
	for _, sig := range signals {
		var v, weight float64
		switch sig {
		case SignalWeather:
			v, weight = b.Weather, w.Weather
		case SignalMood:
			v, weight = b.Mood, w.Mood
		case SignalPopularity:
			v, weight = b.Popularity, w.Popularity
		}
		if mode == ModeWeighted {
			v *= weight
		}
		total += v
	}
	return total
}

// Rank sorts by final score descending, keeping input order among equal scores, truncates to topN
// and rounds every reported value.
func Rank(scored []Scored, topN int) []Scored {
	out := make([]Scored, len(scored))
	copy(out, scored)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Scores.Final > out[j].Scores.Final
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	for i := range out {
		s := &out[i].Scores
		s.Weather = round2(s.Weather)
		s.Mood = round2(s.Mood)
		s.Popularity = round2(s.Popularity)
		s.Combined = round2(s.Combined)
		s.PreferenceAdjustment = round2(s.PreferenceAdjustment)
		s.Final = round2(s.Final)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
