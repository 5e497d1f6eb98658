// internal/workers/recommendation/list-moods/handler.go
package listmoods

import (
	"context"

	"food-recommender/internal/common/logger"
	"food-recommender/internal/common/metrics"
	"food-recommender/internal/recommend"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "list-moods"

// MoodLister exposes the mood rule table.
type MoodLister interface {
	Moods() []recommend.MoodRule
}

type Handler struct {
	config *Config
	moods  MoodLister
	logger logger.Logger
}

func NewHandler(config *Config, moods MoodLister, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		moods:  moods,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) {
	h.logger.Debug("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	execCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	output, _ := h.Execute(execCtx, &Input{})

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

// Execute lists every mood key with its description in table order.
func (h *Handler) Execute(_ context.Context, _ *Input) (*Output, error) {
	rules := h.moods.Moods()
	out := &Output{Moods: make([]Mood, 0, len(rules))}
	for _, r := range rules {
		out.Moods = append(out.Moods, Mood{Key: r.Key, Description: r.Description})
	}
	return out, nil
}
