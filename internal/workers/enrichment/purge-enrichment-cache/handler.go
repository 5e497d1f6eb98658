// internal/workers/enrichment/purge-enrichment-cache/handler.go
package purgeenrichmentcache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"

	"food-recommender/internal/common/errors"
	"food-recommender/internal/common/logger"
	"food-recommender/internal/common/metrics"
	"food-recommender/internal/common/validation"
	"food-recommender/internal/enrichment"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "purge-enrichment-cache"

// Admin is the secret-protected surface of one enrichment cache.
type Admin interface {
	Provider() string
	Purge(ctx context.Context, secret string) (int, error)
	SetOverride(ctx context.Context, secret, itemID, url string) (*enrichment.Entry, error)
	Blacklist(ctx context.Context, secret, itemID, resultID string) (*enrichment.Entry, error)
}

type Handler struct {
	config       *Config
	caches       map[string]Admin
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger, caches ...Admin) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	byName := make(map[string]Admin, len(caches))
	for _, c := range caches {
		byName[c.Provider()] = c
	}
	return &Handler{
		config:       config,
		caches:       byName,
		logger:       scoped,
		errorHandler: errors.NewErrorHandler(scoped),
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) {
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
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	cache, ok := h.caches[input.Provider]
	if !ok {
		return nil, errors.NewValidationError(fmt.Sprintf("unknown provider %q, expected one of %v", input.Provider, h.providers()))
	}

	out := &Output{Provider: input.Provider, Action: input.Action}
	var err error
	switch input.Action {
	case ActionPurge:
		out.Deleted, err = cache.Purge(ctx, input.AdminKey)
	case ActionOverride:
		out.Entry, err = cache.SetOverride(ctx, input.AdminKey, input.ItemID, input.URL)
	case ActionBlacklist:
		out.Entry, err = cache.Blacklist(ctx, input.AdminKey, input.ItemID, input.ResultID)
	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unknown action %q", input.Action))
	}
	if err != nil {
		return nil, mapError(err, input.ItemID)
	}

	h.logger.Info("admin operation applied", map[string]interface{}{
		"provider": input.Provider,
		"action":   input.Action,
		"itemId":   input.ItemID,
		"deleted":  out.Deleted,
	})
	return out, nil
}

func (h *Handler) providers() []string {
	names := make([]string, 0, len(h.caches))
	for name := range h.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mapError(err error, itemID string) error {
	switch {
	case stderrors.Is(err, enrichment.ErrForbidden):
		return errors.NewForbiddenError("admin key rejected")
	case stderrors.Is(err, enrichment.ErrEntryNotFound):
		return errors.NewEntryNotFoundError(itemID)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewTimeoutError("enrichment", err)
	default:
		return errors.NewCacheStoreError(err)
	}
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
