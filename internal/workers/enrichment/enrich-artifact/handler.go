// internal/workers/enrichment/enrich-artifact/handler.go
package enrichartifact

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"food-recommender/internal/common/errors"
	"food-recommender/internal/common/logger"
	"food-recommender/internal/common/metrics"
	"food-recommender/internal/common/validation"
	"food-recommender/internal/enrichment"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskTypeImage  = "enrich-food-image"
	TaskTypeRecipe = "enrich-food-recipe"
)

// Enricher is the cache-aside front of one provider.
type Enricher interface {
	Provider() string
	Lookup(ctx context.Context, itemID string) (*enrichment.Artifact, error)
	Batch(ctx context.Context, itemIDs []string) (*enrichment.BatchResult, error)
}

type Handler struct {
	config       *Config
	cache        Enricher
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, cache Enricher, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{
		"taskType": config.TaskType,
		"provider": cache.Provider(),
	})
	return &Handler{
		config:       config,
		cache:        cache,
		logger:       scoped,
		errorHandler: errors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) {
	taskType := h.config.TaskType
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()

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

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
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

// Execute runs a single lookup or a batch.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	out := &Output{Provider: h.cache.Provider()}

	if len(input.ItemIDs) > 0 {
		if len(input.ItemIDs) > maxBatchItems {
			return nil, errors.NewValidationError(fmt.Sprintf("at most %d itemIds per batch", maxBatchItems))
		}
		res, err := h.cache.Batch(ctx, input.ItemIDs)
		if err != nil {
			return nil, mapError(err, "")
		}
		out.Results = res.Results
		out.NotFound = res.NotFound

		h.logger.Info("batch enriched", map[string]interface{}{
			"requested": len(input.ItemIDs),
			"resolved":  len(res.Results),
			"notFound":  len(res.NotFound),
		})
		return out, nil
	}

	if input.ItemID == "" {
		return nil, errors.NewValidationError("itemId or itemIds is required")
	}
	art, err := h.cache.Lookup(ctx, input.ItemID)
	if err != nil {
		return nil, mapError(err, input.ItemID)
	}
	out.Artifact = art
	return out, nil
}

func mapError(err error, itemID string) error {
	switch {
	case stderrors.Is(err, enrichment.ErrItemNotFound):
		return errors.NewItemNotFoundError(itemID)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewTimeoutError("enrichment", err)
	default:
		return errors.NewCatalogUnavailableError(err)
	}
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(h.config.TaskType, string(errors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
