// internal/workers/reporting/compute-job-statistics/handler.go
package computejobstatistics

import (
	"context"
	"encoding/json"
	"strings"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/common/metrics"
	"recruit-screening/internal/common/observability"
	"recruit-screening/internal/datasource"
	"recruit-screening/internal/models"
	"recruit-screening/internal/screening"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "compute-job-statistics"
)

// Publisher stores a statistics snapshot for dashboards.
type Publisher interface {
	Publish(ctx context.Context, jobID string, stats models.JobStatistics) (string, error)
}

type Handler struct {
	config       *Config
	source       datasource.Source
	publisher    Publisher
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler; publisher may be nil.
func NewHandler(config *Config, source datasource.Source, publisher Publisher, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		source:       source,
		publisher:    publisher,
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
	jobID := strings.TrimSpace(input.JobID)
	if jobID == "" {
		return nil, errors.NewValidationError("jobId is required", "")
	}

	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.String("job.id", jobID))
	defer span.End()

	data, err := datasource.LoadJob(ctx, h.source, jobID, h.config.PageSize)
	if err != nil {
		return nil, err
	}

	stats := screening.ComputeStatistics(data.Applications, h.config.TopSkills)
	stats.JobID = jobID
	stats.KnockoutFailed = countKnockedOut(data.Questions, data.Applications)

	output := &Output{Statistics: stats}

	publish := h.config.Publish
	if input.Publish != nil {
		publish = *input.Publish
	}
	if publish && h.publisher != nil {
		id, err := h.publisher.Publish(ctx, jobID, stats)
		if err != nil {
			return nil, err
		}
		output.Published = true
		output.DocumentID = id
	}

	h.logger.Info("job statistics computed", map[string]interface{}{
		"jobId":     jobID,
		"total":     stats.Total,
		"published": output.Published,
	})
	return output, nil
}

func countKnockedOut(questions []models.ScreeningQuestion, apps []models.Application) int {
	n := 0
	for i := range apps {
		if screening.EvaluateKnockout(questions, apps[i].Answers).Eliminate {
			n++
		}
	}
	return n
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
