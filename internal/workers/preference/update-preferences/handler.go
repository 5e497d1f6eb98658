// internal/workers/preference/update-preferences/handler.go
package updatepreferences

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
	"food-recommender/internal/models"
	"food-recommender/internal/preference"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "update-preferences"

type Handler struct {
	config       *Config
	store        preference.Store
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	now          func() time.Time
}

func NewHandler(config *Config, store preference.Store, log logger.Logger) *Handler {
	scoped := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		store:        store,
		logger:       scoped,
		errorHandler: errors.NewErrorHandler(scoped),
		now:          time.Now,
	}
}

func (h *Handler) Handle(ctx context.Context, client worker.JobClient, job entities.Job) {
	start := time.Now()
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

// Execute reads or changes a user's preference profile.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, errors.NewValidationError("userId is required")
	}
	out := &Output{UserID: input.UserID}

	switch input.Action {
	case ActionGet:
		prefs, err := h.store.Get(ctx, input.UserID)
		if err != nil {
			return nil, mapError(err)
		}
		out.Found = prefs != nil
		out.Preferences = prefs

	case ActionPut:
		prefs, err := h.store.Get(ctx, input.UserID)
		if err != nil {
			return nil, mapError(err)
		}
		if prefs == nil {
			prefs = &models.UserPreferences{UserID: input.UserID}
		}
		prefs.PreferredCategories = input.PreferredCategories
		prefs.PreferredTags = input.PreferredTags
		prefs.UpdatedAt = h.now().UTC()
		if err := h.store.Put(ctx, prefs); err != nil {
			return nil, mapError(err)
		}
		out.Found = true
		out.Preferences = prefs

	case ActionRate:
		if input.ItemID == "" || input.Rating < 1 || input.Rating > 5 {
			return nil, errors.NewValidationError("rate needs itemId and a rating between 1 and 5")
		}
		prefs, err := preference.RateItem(ctx, h.store, input.UserID, input.ItemID, input.ItemName, input.Rating)
		if err != nil {
			return nil, mapError(err)
		}
		out.Found = true
		out.Preferences = prefs

	case ActionDelete:
		if err := h.store.Delete(ctx, input.UserID); err != nil {
			return nil, mapError(err)
		}

	default:
		return nil, errors.NewValidationError(fmt.Sprintf("unknown action %q", input.Action))
	}

	h.logger.Info("preferences updated", map[string]interface{}{
		"userId": input.UserID,
		"action": input.Action,
	})
	return out, nil
}

func mapError(err error) error {
	switch {
	case stderrors.Is(err, preference.ErrInvalidProfile):
		return errors.NewValidationError(err.Error())
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewTimeoutError("preferences", err)
	default:
		return errors.NewPreferenceStoreError(err)
	}
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, err)
}
