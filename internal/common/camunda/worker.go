// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"food-recommender/internal/common/config"
	"food-recommender/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// JobHandler handles one activated job. ctx carries the job span.
type JobHandler func(ctx context.Context, client worker.JobClient, job entities.Job)

// Telemetry records job outcomes. *observability.Observability satisfies it.
type Telemetry interface {
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)
	RecordJobProcessed(ctx context.Context, taskType, status string)
	RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string)
}

// Runner opens job workers and closes them on shutdown.
type Runner struct {
	client    zbc.Client
	telemetry Telemetry
	logger    logger.Logger
	workers   []worker.JobWorker
}

func NewRunner(client zbc.Client, telemetry Telemetry, log logger.Logger) *Runner {
	return &Runner{
		client:    client,
		telemetry: telemetry,
		logger:    log.WithFields(map[string]interface{}{"component": "runner"}),
	}
}

// Start opens a job worker for taskType unless it is disabled in configuration.
func (r *Runner) Start(taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		r.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	w := r.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, r.telemetry, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()
	r.workers = append(r.workers, w)

	r.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// Stop closes every worker and waits for in-flight jobs.
func (r *Runner) Stop() {
	for _, w := range r.workers {
		w.Close()
		w.AwaitClose()
	}
	r.logger.Info("workers stopped", map[string]interface{}{"count": len(r.workers)})
}

// Instrument adapts a handler to the Zeebe client, wrapping it with a span and job outcome metrics.
// A job counts as completed when the handler issued a complete command.
func Instrument(taskType string, telemetry Telemetry, handler JobHandler) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		ctx, span := telemetry.StartSpan(context.Background(), "job."+taskType)
		span.SetAttributes(
			attribute.String("task_type", taskType),
			attribute.Int64("job_key", job.Key),
		)
		defer span.End()

		tracked := &trackingClient{JobClient: client}
		handler(ctx, tracked, job)

		status := "failed"
		if tracked.completed {
			status = "completed"
		}
		span.SetAttributes(attribute.String("status", status))
		telemetry.RecordJobProcessed(ctx, taskType, status)
		telemetry.RecordJobDuration(ctx, taskType, time.Since(start), status)
	}
}

type trackingClient struct {
	worker.JobClient
	completed bool
}

func (c *trackingClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.completed = true
	return c.JobClient.NewCompleteJobCommand()
}
