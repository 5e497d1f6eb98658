// internal/enrichment/entry.go

// Package enrichment attaches externally sourced images and recipes to catalog items through a
// cache-aside store.
package enrichment

import (
	"time"

	"food-recommender/internal/models"
)

// SourceFallback marks an entry built from the placeholder artifact instead of a provider result.
const SourceFallback = "fallback"

// Entry is the cached artifact set of one (item, provider) pair. PrimaryURL is always the override
// when one is set, otherwise an element of URLs.
type Entry struct {
	ID          string         `json:"id"`
	ItemID      string         `json:"itemId"`
	Provider    string         `json:"provider"`
	Source      string         `json:"source"`
	PrimaryURL  string         `json:"primaryUrl"`
	URLs        []string       `json:"urls"`
	ResultIDs   []string       `json:"resultIds"`
	OverrideURL string         `json:"overrideUrl,omitempty"`
	Blacklist   []string       `json:"blacklist,omitempty"`
	QueryUsed   string         `json:"queryUsed,omitempty"`
	Recipe      *models.Recipe `json:"recipe,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	ExpiresAt   *time.Time     `json:"expiresAt,omitempty"`
}

// Expired reports whether the entry has an expiry at or before now.
func (e *Entry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !now.Before(*e.ExpiresAt)
}

func (e *Entry) IsFallback() bool {
	return e.Source == SourceFallback
}

func (e *Entry) blacklisted(resultID string) bool {
	for _, id := range e.Blacklist {
		if id == resultID {
			return true
		}
	}
	return false
}

// usable returns the indexes of URLs whose result id is not blacklisted.
func (e *Entry) usable() []int {
	out := make([]int, 0, len(e.URLs))
	for i := range e.URLs {
		if i < len(e.ResultIDs) && e.blacklisted(e.ResultIDs[i]) {
			continue
		}
		out = append(out, i)
	}
	return out
}

// URL is the artifact returned for a single lookup.
func (e *Entry) URL() string {
	if e.OverrideURL != "" {
		return e.OverrideURL
	}
	if idx := e.indexOf(e.PrimaryURL); idx >= 0 && (idx >= len(e.ResultIDs) || !e.blacklisted(e.ResultIDs[idx])) {
		return e.PrimaryURL
	}
	if u := e.usable(); len(u) > 0 {
		return e.URLs[u[0]]
	}
	return e.PrimaryURL
}

// Rotate picks one of the usable URLs from the current time and the item id, so repeated batch
// reads spread over the stored alternatives. The override always wins.
func (e *Entry) Rotate(now time.Time) string {
	if e.OverrideURL != "" {
		return e.OverrideURL
	}
	u := e.usable()
	if len(u) == 0 {
		return e.PrimaryURL
	}
	var seed int64
	if e.ItemID != "" {
		seed = int64(e.ItemID[0])
	}
	idx := (now.UnixMilli() + seed) % int64(len(u))
	if idx < 0 {
		idx = -idx
	}
	return e.URLs[u[idx]]
}

// ResultIDFor returns the provider result id that produced url, or "" if url is not stored.
func (e *Entry) ResultIDFor(url string) string {
	if idx := e.indexOf(url); idx >= 0 && idx < len(e.ResultIDs) {
		return e.ResultIDs[idx]
	}
	return ""
}

func (e *Entry) indexOf(url string) int {
	for i, u := range e.URLs {
		if u == url {
			return i
		}
	}
	return -1
}

// resetPrimary re-derives PrimaryURL after an override or blacklist change.
func (e *Entry) resetPrimary() {
	if e.OverrideURL != "" {
		e.PrimaryURL = e.OverrideURL
		return
	}
	if u := e.usable(); len(u) > 0 {
		e.PrimaryURL = e.URLs[u[0]]
		return
	}
	if len(e.URLs) > 0 {
		e.PrimaryURL = e.URLs[0]
	}
}
