// internal/recommend/engine.go
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-recommender/internal/common/logger"
	"food-recommender/internal/common/metrics"
	"food-recommender/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrValidation marks a request that is missing a required context field.
	ErrValidation = errors.New("invalid recommendation request")
	// ErrCatalog marks a failure to list candidates from the catalog.
	ErrCatalog = errors.New("catalog unavailable")
)

// CatalogReader lists candidate items.
type CatalogReader interface {
	ListItems(ctx context.Context, filter models.CatalogFilter) ([]models.Food, error)
}

// PreferenceReader returns a user's profile, or nil when the user has none.
type PreferenceReader interface {
	Get(ctx context.Context, userID string) (*models.UserPreferences, error)
}

// TrendingSource lists currently trending content.
type TrendingSource interface {
	ListTrending(ctx context.Context) ([]models.TrendingItem, error)
}

// RequestContext is the situational input of a scoring request.
type RequestContext struct {
	Temperature        *float64 `json:"temperature,omitempty"`
	WeatherDescription string   `json:"weatherDescription,omitempty"`
	Mood               string   `json:"mood,omitempty"`
	UserID             string   `json:"userId,omitempty"`
}

// Request asks for a ranked list. Empty Candidates means "list from the catalog".
type Request struct {
	Candidates []models.Food   `json:"candidates,omitempty"`
	Context    RequestContext  `json:"context"`
	Signals    []Signal        `json:"signals,omitempty"`
	Mode       Mode            `json:"mode,omitempty"`
	Weights    *Weights        `json:"weights,omitempty"`
	TopN       int             `json:"topN,omitempty"`
	FoodType   models.FoodType `json:"foodType,omitempty"`
}

type Response struct {
	Recommendations []Scored `json:"recommendations"`
	TotalCandidates int      `json:"totalCandidates"`
	Mode            Mode     `json:"mode"`
	Signals         []Signal `json:"signals"`
	Personalized    bool     `json:"personalized"`
	TrendingUsed    bool     `json:"trendingUsed"`
}

// Engine runs the full scoring pipeline: signals, combine, preference adjustment, rank.
type Engine struct {
	cfg      Config
	scorer   *Scorer
	adjuster *Adjuster
	catalog  CatalogReader
	prefs    PreferenceReader
	trending TrendingSource
	logger   logger.Logger
}

// NewEngine wires the collaborators. catalog, prefs and trending may each be nil.
func NewEngine(cfg Config, catalog CatalogReader, prefs PreferenceReader, trending TrendingSource, log logger.Logger) *Engine {
	if cfg.Rules == nil {
		cfg.Rules = DefaultRuleTable()
	}
	return &Engine{
		cfg:      cfg,
		scorer:   NewScorer(cfg),
		adjuster: NewAdjuster(cfg),
		catalog:  catalog,
		prefs:    prefs,
		trending: trending,
		logger:   log.WithFields(map[string]interface{}{"component": "recommend"}),
	}
}

// Moods lists the supported mood keys in table order.
func (e *Engine) Moods() []MoodRule {
	out := make([]MoodRule, len(e.cfg.Rules.Moods))
	copy(out, e.cfg.Rules.Moods)
	return out
}

func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	ctx, span := otel.Tracer("food-recommender/recommend").Start(ctx, "recommend.Recommend")
	defer span.End()

	signals, err := normalizeSignals(req.Signals)
	if err != nil {
		return nil, err
	}
	if err := validateContext(signals, req.Context); err != nil {
		return nil, err
	}

	mode := req.Mode
	switch mode {
	case "":
		mode = ModeSimple
		if len(signals) > 1 {
			mode = ModeWeighted
		}
	case ModeSimple, ModeWeighted:
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrValidation, mode)
	}

	weights := e.cfg.DefaultWeights
	if req.Weights != nil {
		weights = *req.Weights
		if weights.Weather < 0 || weights.Mood < 0 || weights.Popularity < 0 {
			return nil, fmt.Errorf("%w: weights must be non-negative", ErrValidation)
		}
	}

	topN := req.TopN
	if topN < 0 {
		return nil, fmt.Errorf("%w: topN must be positive", ErrValidation)
	}
	if topN == 0 {
		topN = e.cfg.DefaultTopN
	}

	candidates, err := e.candidates(ctx, req)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("mode", string(mode)),
		attribute.Int("candidates", len(candidates)),
	)

	ev := e.evaluate(ctx, candidates, signals, req.Context)

	scored := make([]Scored, len(candidates))
	for i, item := range candidates {
		b := ScoreBreakdown{
			Weather:    ev.weather[i],
			Mood:       ev.mood[i],
			Popularity: ev.popularity[item.ID],
		}
		b.MatchedRules = append(append(b.MatchedRules, ev.weatherRules[i]...), ev.moodRules[i]...)
		b.Combined = Combine(b, signals, mode, weights)
		b.Final, b.PreferenceAdjustment = e.adjuster.Adjust(b.Combined, item, ev.profile)
		scored[i] = Scored{Candidate: item, Scores: b}
	}

	ranked := Rank(scored, topN)

	metrics.RecommendationsServed.WithLabelValues(string(mode)).Inc()
	e.logger.Info("recommendations ranked", map[string]interface{}{
		"mode":            mode,
		"signals":         signals,
		"totalCandidates": len(candidates),
		"returned":        len(ranked),
		"personalized":    ev.profile != nil,
		"duration_ms":     time.Since(start).Milliseconds(),
	})

	return &Response{
		Recommendations: ranked,
		TotalCandidates: len(candidates),
		Mode:            mode,
		Signals:         signals,
		Personalized:    ev.profile != nil,
		TrendingUsed:    ev.trendingUsed,
	}, nil
}

func (e *Engine) candidates(ctx context.Context, req Request) ([]models.Food, error) {
	if len(req.Candidates) > 0 {
		return req.Candidates, nil
	}
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: candidates are required when no catalog is configured", ErrValidation)
	}

	foodType := req.FoodType
	if foodType == models.FoodTypeAny {
		foodType = models.FoodTypeMain
	}
	items, err := e.catalog.ListItems(ctx, models.CatalogFilter{FoodType: foodType, AvailableOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalog, err)
	}
	return items, nil
}

type evaluation struct {
	weather      []float64
	mood         []float64
	weatherRules [][]MatchedRule
	moodRules    [][]MatchedRule
	popularity   map[string]float64
	profile      *models.UserPreferences
	trendingUsed bool
}

// evaluate runs the requested signals and the profile fetch concurrently. Collaborator failures are
// recovered here and never fail the request.
func (e *Engine) evaluate(ctx context.Context, items []models.Food, signals []Signal, rc RequestContext) *evaluation {
	ev := &evaluation{
		weather:      make([]float64, len(items)),
		mood:         make([]float64, len(items)),
		weatherRules: make([][]MatchedRule, len(items)),
		moodRules:    make([][]MatchedRule, len(items)),
		popularity:   map[string]float64{},
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, sig := range signals {
		switch sig {
		case SignalWeather:
			g.Go(func() error {
				for i, item := range items {
					ev.weather[i], ev.weatherRules[i] = e.scorer.Weather(item, *rc.Temperature, rc.WeatherDescription)
				}
				return nil
			})
		case SignalMood:
			g.Go(func() error {
				for i, item := range items {
					ev.mood[i], ev.moodRules[i] = e.scorer.Mood(item, rc.Mood)
				}
				return nil
			})
		case SignalPopularity:
			g.Go(func() error {
				ev.popularity, ev.trendingUsed = e.popularity(gctx, items)
				return nil
			})
		}
	}

	if rc.UserID != "" && e.prefs != nil {
		g.Go(func() error {
			profile, err := e.prefs.Get(gctx, rc.UserID)
			if err != nil {
				metrics.SignalFallbacks.WithLabelValues("preference", "store_error").Inc()
				e.logger.Warn("preference lookup failed, ranking without personalization", map[string]interface{}{
					"userId": rc.UserID,
					"error":  err,
				})
				return nil
			}
			ev.profile = profile
			return nil
		})
	}

	_ = g.Wait()
	return ev
}

func (e *Engine) popularity(ctx context.Context, items []models.Food) (map[string]float64, bool) {
	if e.trending == nil {
		return e.scorer.Popularity(items, nil), false
	}

	trending, err := e.trending.ListTrending(ctx)
	if err != nil {
		metrics.SignalFallbacks.WithLabelValues("popularity", "feed_error").Inc()
		e.logger.Warn("trending feed failed, popularity falls back to base rating", map[string]interface{}{
			"error": err,
		})
		return PopularityFallback(items), false
	}

	corpus := CorpusFromTrending(trending)
	if len(corpus) == 0 {
		metrics.SignalFallbacks.WithLabelValues("popularity", "feed_empty").Inc()
		return PopularityFallback(items), false
	}
	return e.scorer.Popularity(items, corpus), true
}

func normalizeSignals(in []Signal) ([]Signal, error) {
	if len(in) == 0 {
		return []Signal{SignalWeather, SignalMood, SignalPopularity}, nil
	}
	seen := make(map[Signal]bool, len(in))
	out := make([]Signal, 0, len(in))
	for _, s := range in {
		switch s {
		case SignalWeather, SignalMood, SignalPopularity:
		default:
			return nil, fmt.Errorf("%w: unknown signal %q", ErrValidation, s)
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}

func validateContext(signals []Signal, rc RequestContext) error {
	for _, s := range signals {
		switch s {
		case SignalWeather:
			if rc.Temperature == nil {
				return fmt.Errorf("%w: temperature is required for the weather signal", ErrValidation)
			}
			if rc.WeatherDescription == "" {
				return fmt.Errorf("%w: weatherDescription is required for the weather signal", ErrValidation)
			}
		case SignalMood:
			if rc.Mood == "" {
				return fmt.Errorf("%w: mood is required for the mood signal", ErrValidation)
			}
		}
	}
	return nil
}
