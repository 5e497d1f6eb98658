// internal/enrichment/entry_test.go
package enrichment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func rotationEntry() *Entry {
	return &Entry{
		ItemID:     "a",
		PrimaryURL: "u0",
		URLs:       []string{"u0", "u1", "u2"},
		ResultIDs:  []string{"r0", "r1", "r2"},
	}
}

func TestEntry_Rotate(t *testing.T) {
	now := time.UnixMilli(1000)

	e := rotationEntry()
	// (1000 + 'a') mod 3 == 2
	assert.Equal(t, "u2", e.Rotate(now))
	assert.Equal(t, "u0", e.Rotate(now.Add(time.Millisecond)))

	e.Blacklist = []string{"r1"}
	// usable u0, u2: (1000 + 'a') mod 2 == 1
	assert.Equal(t, "u2", e.Rotate(now))

	e.OverrideURL = "pinned"
	assert.Equal(t, "pinned", e.Rotate(now))
}

func TestEntry_URL(t *testing.T) {
	e := rotationEntry()
	assert.Equal(t, "u0", e.URL())

	e.Blacklist = []string{"r0"}
	assert.Equal(t, "u1", e.URL())

	e.Blacklist = []string{"r0", "r1", "r2"}
	assert.Equal(t, "u0", e.URL())

	e.OverrideURL = "pinned"
	assert.Equal(t, "pinned", e.URL())
}

func TestEntry_ResetPrimary(t *testing.T) {
	e := rotationEntry()
	e.OverrideURL = "pinned"
	e.resetPrimary()
	assert.Equal(t, "pinned", e.PrimaryURL)

	e.OverrideURL = ""
	e.Blacklist = []string{"r0"}
	e.resetPrimary()
	assert.Equal(t, "u1", e.PrimaryURL)
}

func TestEntry_Expired(t *testing.T) {
	now := time.Now()
	e := &Entry{}
	assert.False(t, e.Expired(now))

	exp := now.Add(time.Second)
	e.ExpiresAt = &exp
	assert.False(t, e.Expired(now))
	assert.True(t, e.Expired(exp))
	assert.Equal(t, "r1", rotationEntry().ResultIDFor("u1"))
	assert.Equal(t, "", rotationEntry().ResultIDFor("nope"))
}
