// internal/enrichment/cache.go
package enrichment

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"food-recommender/internal/catalog"
	"food-recommender/internal/common/logger"
	"food-recommender/internal/common/metrics"
	"food-recommender/internal/models"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrItemNotFound  = errors.New("item not found")
	ErrEntryNotFound = errors.New("cache entry not found")
	ErrForbidden     = errors.New("forbidden")
)

// ItemGetter resolves catalog items by id.
type ItemGetter interface {
	GetItem(ctx context.Context, id string) (*models.Food, error)
}

// Options tunes one cache instance.
type Options struct {
	MaxURLs     int
	TTL         time.Duration // zero keeps provider entries until purged
	FallbackTTL time.Duration
	FallbackURL string
	AdminKey    string
}

// Artifact is what a lookup resolves to.
type Artifact struct {
	ItemID string         `json:"itemId"`
	URL    string         `json:"url"`
	Cached bool           `json:"cached"`
	Source string         `json:"source"`
	Recipe *models.Recipe `json:"recipe,omitempty"`
}

// BatchResult maps every resolvable id to its artifact. Ids unknown to the catalog are listed in
// NotFound.
type BatchResult struct {
	Results  map[string]*Artifact `json:"results"`
	NotFound []string             `json:"notFound,omitempty"`
}

// Cache is the cache-aside front of one provider. Concurrent misses for the same item may both
// fetch; the last write wins.
type Cache struct {
	provider Provider
	store    Store
	items    ItemGetter
	opts     Options
	logger   logger.Logger
	now      func() time.Time
}

func NewCache(provider Provider, store Store, items ItemGetter, opts Options, log logger.Logger) *Cache {
	if opts.MaxURLs <= 0 {
		opts.MaxURLs = 12
	}
	return &Cache{
		provider: provider,
		store:    store,
		items:    items,
		opts:     opts,
		logger:   log.WithFields(map[string]interface{}{"component": "enrichment", "provider": provider.Name()}),
		now:      time.Now,
	}
}

func (c *Cache) Provider() string {
	return c.provider.Name()
}

// Lookup returns the cached artifact for an item, fetching and storing one on a miss.
func (c *Cache) Lookup(ctx context.Context, itemID string) (*Artifact, error) {
	ctx, span := otel.Tracer("food-recommender/enrichment").Start(ctx, "enrichment.Lookup")
	defer span.End()
	span.SetAttributes(attribute.String("provider", c.provider.Name()), attribute.String("itemId", itemID))

	item, err := c.item(ctx, itemID)
	if err != nil {
		return nil, err
	}

	entry, err := c.store.Get(ctx, c.provider.Name(), itemID)
	if err != nil {
		c.logger.Warn("cache read failed, treating as miss", map[string]interface{}{"itemId": itemID, "error": err})
	}
	if entry != nil && !entry.Expired(c.now()) {
		c.record("hit")
		return artifact(entry, entry.URL(), true), nil
	}

	entry = c.fetchAndStore(ctx, item, map[string]struct{}{}, entry)
	return artifact(entry, entry.PrimaryURL, false), nil
}

// Batch resolves many items: hits come from one bulk read and rotate among stored URLs, misses are
// fetched one at a time so that a result already handed out in this batch is not reused when an
// alternative exists.
func (c *Cache) Batch(ctx context.Context, itemIDs []string) (*BatchResult, error) {
	ctx, span := otel.Tracer("food-recommender/enrichment").Start(ctx, "enrichment.Batch")
	defer span.End()

	ids := uniqueIDs(itemIDs)
	span.SetAttributes(attribute.String("provider", c.provider.Name()), attribute.Int("items", len(ids)))

	out := &BatchResult{Results: make(map[string]*Artifact, len(ids))}
	now := c.now()

	hits, err := c.store.GetMany(ctx, c.provider.Name(), ids)
	if err != nil {
		c.logger.Warn("bulk cache read failed, treating all as misses", map[string]interface{}{"error": err})
		hits = nil
	}

	used := make(map[string]struct{})
	for _, id := range ids {
		entry, ok := hits[id]
		if !ok || entry.Expired(now) {
			continue
		}
		url := entry.Rotate(now)
		if rid := entry.ResultIDFor(url); rid != "" && !entry.IsFallback() {
			used[rid] = struct{}{}
		}
		c.record("hit")
		out.Results[id] = artifact(entry, url, true)
	}

	for _, id := range ids {
		if _, done := out.Results[id]; done {
			continue
		}
		item, err := c.item(ctx, id)
		if errors.Is(err, ErrItemNotFound) {
			out.NotFound = append(out.NotFound, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		entry := c.fetchAndStore(ctx, item, used, hits[id])
		out.Results[id] = artifact(entry, entry.PrimaryURL, false)
	}
	return out, nil
}

// Sweep deletes entries whose expiry has passed.
func (c *Cache) Sweep(ctx context.Context) (int, error) {
	n, err := c.store.DeleteExpired(ctx, c.provider.Name(), c.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.EnrichmentEntriesSwept.WithLabelValues(c.provider.Name()).Add(float64(n))
		c.logger.Info("expired entries swept", map[string]interface{}{"deleted": n})
	}
	return n, nil
}

// Purge clears the provider namespace. It is refused when no admin key is configured.
func (c *Cache) Purge(ctx context.Context, secret string) (int, error) {
	if err := c.authorize(secret); err != nil {
		return 0, err
	}
	n, err := c.store.Purge(ctx, c.provider.Name())
	if err != nil {
		return 0, err
	}
	c.logger.Info("cache purged", map[string]interface{}{"deleted": n})
	return n, nil
}

// SetOverride pins the URL returned for an item. An empty url clears the override.
func (c *Cache) SetOverride(ctx context.Context, secret, itemID, url string) (*Entry, error) {
	return c.mutate(ctx, secret, itemID, func(e *Entry) {
		e.OverrideURL = url
	})
}

// Blacklist excludes a provider result from being returned for an item.
func (c *Cache) Blacklist(ctx context.Context, secret, itemID, resultID string) (*Entry, error) {
	return c.mutate(ctx, secret, itemID, func(e *Entry) {
		if !e.blacklisted(resultID) {
			e.Blacklist = append(e.Blacklist, resultID)
		}
	})
}

func (c *Cache) mutate(ctx context.Context, secret, itemID string, fn func(*Entry)) (*Entry, error) {
	if err := c.authorize(secret); err != nil {
		return nil, err
	}
	entry, err := c.store.Get(ctx, c.provider.Name(), itemID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, itemID)
	}

	fn(entry)
	entry.resetPrimary()
	entry.UpdatedAt = c.now()

	if err := c.store.Put(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (c *Cache) authorize(secret string) error {
	if c.opts.AdminKey == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(c.opts.AdminKey)) != 1 {
		return ErrForbidden
	}
	return nil
}

func (c *Cache) item(ctx context.Context, itemID string) (*models.Food, error) {
	item, err := c.items.GetItem(ctx, itemID)
	if errors.Is(err, catalog.ErrNotFound) {
		c.record("not_found")
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve item %s: %w", itemID, err)
	}
	if item == nil {
		c.record("not_found")
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return item, nil
}

// fetchAndStore runs the query chain for one item and stores the outcome. It always returns an
// entry: a provider result, or the fallback. The override and blacklist of prev, the expired entry
// being replaced, carry over to the new entry.
func (c *Cache) fetchAndStore(ctx context.Context, item *models.Food, used map[string]struct{}, prev *Entry) *Entry {
	var entry *Entry
	if prev == nil || len(prev.Blacklist) == 0 {
		entry = c.fetch(ctx, item, used)
	} else {
		exclude := make(map[string]struct{}, len(used)+len(prev.Blacklist))
		for id := range used {
			exclude[id] = struct{}{}
		}
		for _, id := range prev.Blacklist {
			exclude[id] = struct{}{}
		}
		entry = c.fetch(ctx, item, exclude)
		if !entry.IsFallback() && len(entry.ResultIDs) > 0 {
			used[entry.ResultIDs[0]] = struct{}{}
		}
	}

	if prev != nil {
		entry.OverrideURL = prev.OverrideURL
		entry.Blacklist = append([]string(nil), prev.Blacklist...)
		entry.resetPrimary()
	}

	if err := c.store.Put(ctx, entry); err != nil {
		c.logger.Error("cache write failed, returning uncached artifact", map[string]interface{}{
			"itemId": item.ID,
			"error":  err,
		})
	}
	return entry
}

func (c *Cache) fetch(ctx context.Context, item *models.Food, used map[string]struct{}) *Entry {
	name := c.provider.Name()

	for _, query := range c.provider.Queries(*item) {
		results, err := c.provider.Search(ctx, query)
		if err != nil {
			if stopsChain(err) {
				metrics.ProviderRequests.WithLabelValues(name, "rate_limited").Inc()
				c.logger.Warn("provider refused, using fallback", map[string]interface{}{
					"itemId": item.ID,
					"query":  query,
					"error":  err,
				})
				break
			}
			metrics.ProviderRequests.WithLabelValues(name, "error").Inc()
			c.logger.Warn("provider query failed, trying next variant", map[string]interface{}{
				"itemId": item.ID,
				"query":  query,
				"error":  err,
			})
			continue
		}

		ranked := rankResults(results, searchTerms(*item, query))
		if len(ranked) == 0 {
			metrics.ProviderRequests.WithLabelValues(name, "empty").Inc()
			continue
		}
		metrics.ProviderRequests.WithLabelValues(name, "success").Inc()

		entry := c.entryFromResults(ctx, item, query, ranked, used)
		c.record("miss")
		c.logger.Info("artifact fetched", map[string]interface{}{
			"itemId": item.ID,
			"query":  query,
			"url":    entry.PrimaryURL,
		})
		return entry
	}

	c.record("fallback")
	return c.fallback(item)
}

func (c *Cache) entryFromResults(ctx context.Context, item *models.Food, query string, ranked []Result, used map[string]struct{}) *Entry {
	chosen := 0
	for i, r := range ranked {
		if _, taken := used[r.ID]; !taken {
			chosen = i
			break
		}
	}
	best := ranked[chosen]
	used[best.ID] = struct{}{}

	ordered := append([]Result{best}, append(append([]Result{}, ranked[:chosen]...), ranked[chosen+1:]...)...)

	entry := c.newEntry(item, c.provider.Name())
	entry.QueryUsed = query
	seen := make(map[string]struct{})
	for _, r := range ordered {
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		entry.URLs = append(entry.URLs, r.URL)
		entry.ResultIDs = append(entry.ResultIDs, r.ID)
		if len(entry.URLs) == c.opts.MaxURLs {
			break
		}
	}
	entry.PrimaryURL = entry.URLs[0]
	if c.opts.TTL > 0 {
		exp := entry.CreatedAt.Add(c.opts.TTL)
		entry.ExpiresAt = &exp
	}

	if dp, ok := c.provider.(DetailProvider); ok {
		entry.Recipe = c.recipe(ctx, dp, item, best)
	}
	return entry
}

func (c *Cache) recipe(ctx context.Context, dp DetailProvider, item *models.Food, best Result) *models.Recipe {
	recipe, err := dp.Detail(ctx, best.ID)
	if err != nil {
		c.logger.Warn("recipe detail failed, keeping search summary", map[string]interface{}{
			"itemId":   item.ID,
			"resultId": best.ID,
			"error":    err,
		})
		recipe = &models.Recipe{
			ID:         best.ID,
			Title:      best.Title,
			Summary:    best.Description,
			Servings:   1,
			Difficulty: defaultDifficulty,
		}
	}
	if recipe.Image == "" {
		recipe.Image = best.URL
	}
	if recipe.Cuisine == "" {
		recipe.Cuisine = cuisineOf(*item)
	}
	return recipe
}

func (c *Cache) fallback(item *models.Food) *Entry {
	entry := c.newEntry(item, SourceFallback)
	entry.PrimaryURL = c.opts.FallbackURL
	entry.URLs = []string{c.opts.FallbackURL}
	entry.ResultIDs = []string{SourceFallback}
	if c.opts.FallbackTTL > 0 {
		exp := entry.CreatedAt.Add(c.opts.FallbackTTL)
		entry.ExpiresAt = &exp
	}
	if _, ok := c.provider.(DetailProvider); ok {
		entry.Recipe = &models.Recipe{
			ID:             SourceFallback,
			Title:          item.Name,
			Image:          c.opts.FallbackURL,
			ReadyInMinutes: 30,
			Servings:       1,
			Difficulty:     defaultDifficulty,
			Cuisine:        cuisineOf(*item),
			Nutrition:      &models.Nutrition{},
		}
	}
	return entry
}

func (c *Cache) newEntry(item *models.Food, source string) *Entry {
	now := c.now()
	return &Entry{
		ID:        uuid.NewString(),
		ItemID:    item.ID,
		Provider:  c.provider.Name(),
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cache) record(outcome string) {
	metrics.EnrichmentLookups.WithLabelValues(c.provider.Name(), outcome).Inc()
}

func artifact(e *Entry, url string, cached bool) *Artifact {
	return &Artifact{
		ItemID: e.ItemID,
		URL:    url,
		Cached: cached,
		Source: e.Source,
		Recipe: e.Recipe,
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
