// internal/workers/recommendation/score-recommendations/handler.go
package scorerecommendations

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"food-recommender/internal/common/errors"
	"food-recommender/internal/common/logger"
	"food-recommender/internal/common/metrics"
	"food-recommender/internal/common/validation"
	"food-recommender/internal/recommend"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "score-recommendations"

// Recommender ranks candidates for a request.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

type Handler struct {
	config       *Config
	engine       Recommender
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, engine Recommender, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		logger:       scoped,
		errorHandler: errors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := h.parseInput(job.Variables)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	execCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	output, err := h.Execute(execCtx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	if !h.completeJob(ctx, client, job, output) {
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	result, err := inputSchema.ValidateJSON(variables)
	if err != nil {
		return nil, errors.NewInputParseError(err)
	}
	if !result.Valid {
		return nil, errors.NewValidationError(validation.FormatValidationErrors(result.Errors))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInputParseError(err)
	}
	return &input, nil
}

// Execute scores the request and maps engine failures to job errors.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	resp, err := h.engine.Recommend(ctx, input.toRequest())
	switch {
	case err == nil:
	case stderrors.Is(err, recommend.ErrValidation):
		return nil, errors.NewValidationError(err.Error())
	case stderrors.Is(err, recommend.ErrCatalog):
		return nil, errors.NewCatalogUnavailableError(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return nil, errors.NewTimeoutError("recommend", err)
	default:
		return nil, errors.NewInternalError(err)
	}

	return &Output{
		RequestID:       uuid.NewString(),
		Recommendations: resp.Recommendations,
		TotalCandidates: resp.TotalCandidates,
		Mode:            resp.Mode,
		Signals:         resp.Signals,
		Personalized:    resp.Personalized,
		TrendingUsed:    resp.TrendingUsed,
	}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}

// completeJob reports whether the engine accepted the complete command.
func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) bool {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return false
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return false
	}
	return true
}
