// internal/workers/applications/bulk-update-status/handler.go
package bulkupdatestatus

import (
	"context"
	"encoding/json"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/common/metrics"
	"recruit-screening/internal/common/observability"
	"recruit-screening/internal/models"
	"recruit-screening/internal/screening"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "bulk-update-status"
)

// Notifier announces finished bulk actions.
type Notifier interface {
	BulkCompleted(ctx context.Context, jobID string, result *screening.BulkResult) error
}

type Handler struct {
	config       *Config
	dispatcher   *screening.Dispatcher
	notifier     Notifier
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler; notifier may be nil.
func NewHandler(config *Config, updater screening.StatusUpdater, notifier Notifier, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		dispatcher:   screening.NewDispatcher(updater, config.RatePerSecond, log),
		notifier:     notifier,
		obs:          obs,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewValidationError("parse input", err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	status, err := models.ParseStatus(input.Status)
	if err != nil {
		return nil, errors.NewInvalidStatusError(input.Status)
	}

	ctx, span := h.obs.StartSpan(ctx, TaskType,
		attribute.String("job.id", input.JobID),
		attribute.String("target.status", string(status)),
		attribute.Int("selection.size", len(input.ApplicationIDs)),
	)
	defer span.End()

	result, err := h.dispatcher.Dispatch(ctx, input.ApplicationIDs, status)
	if err != nil {
		return nil, err
	}

	metrics.BulkUpdates.WithLabelValues(string(status), "succeeded").Add(float64(len(result.Succeeded)))
	metrics.BulkUpdates.WithLabelValues(string(status), "failed").Add(float64(len(result.Failed)))

	output := &Output{
		Status:    string(status),
		Requested: result.Requested(),
		Succeeded: append([]string{}, result.Succeeded...),
		Failed:    append([]screening.BulkFailure{}, result.Failed...),
		Notice:    result.Notice,
	}

	if h.notifier != nil {
		// delivery problems never change the bulk outcome
		if err := h.notifier.BulkCompleted(ctx, input.JobID, result); err != nil {
			h.logger.Warn("bulk notification failed", map[string]interface{}{
				"jobId": input.JobID,
				"error": err,
			})
		} else {
			output.Notified = true
		}
	}

	h.logger.Info("bulk status update finished", map[string]interface{}{
		"jobId":     input.JobID,
		"status":    status,
		"succeeded": len(result.Succeeded),
		"failed":    len(result.Failed),
	})
	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.obs.RecordJobProcessed(context.Background(), TaskType, "completed")

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.AsStandard(err).Code)).Inc()
	h.obs.RecordJobProcessed(context.Background(), TaskType, "failed")
	h.errorHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
