// internal/workers/recommendation/list-moods/handler_test.go
package listmoods

import (
	"context"
	"testing"
	"time"

	"food-recommender/internal/common/logger"
	"food-recommender/internal/recommend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExecuteListsEveryMood(t *testing.T) {
	engine := recommend.NewEngine(recommend.DefaultConfig(), nil, nil, nil, logger.NewNoOpLogger())
	h := NewHandler(&Config{Timeout: time.Second}, engine, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)
	require.Len(t, out.Moods, len(engine.Moods()))

	keys := make([]string, len(out.Moods))
	for i, m := range out.Moods {
		keys[i] = m.Key
		assert.NotEmpty(t, m.Description, m.Key)
	}
	assert.Contains(t, keys, "stressed")
}

type staticMoods []recommend.MoodRule

func (s staticMoods) Moods() []recommend.MoodRule { return s }

func TestHandler_ExecuteKeepsTableOrder(t *testing.T) {
	h := NewHandler(&Config{Timeout: time.Second}, staticMoods{
		{Key: "happy", Description: "celebrate"},
		{Key: "tired", Description: "recharge"},
	}, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []Mood{{Key: "happy", Description: "celebrate"}, {Key: "tired", Description: "recharge"}}, out.Moods)
}
