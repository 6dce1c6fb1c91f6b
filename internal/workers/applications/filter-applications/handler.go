// internal/workers/applications/filter-applications/handler.go
package filterapplications

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
	"recruit-screening/internal/recruitapi"
	"recruit-screening/internal/screening"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "filter-applications"
)

type Handler struct {
	config       *Config
	source       datasource.Source
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, source datasource.Source, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		source:       source,
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
		h.failJob(client, job, errors.NewInvalidFilterFormatError(err.Error()))
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
	criteria, err := screening.ParseCriteria(input.Filters)
	if err != nil {
		return nil, err
	}
	key, dir, err := screening.ParseSortKey(input.SortBy)
	if err != nil {
		return nil, err
	}
	if input.Offset < 0 || input.Limit < 0 {
		return nil, errors.NewInvalidFilterFormatError("offset and limit must not be negative")
	}
	if criteria.JobID == "" {
		criteria.JobID = input.JobID
	}

	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.String("job.id", criteria.JobID))
	defer span.End()

	apps, err := datasource.AllApplications(ctx, h.source, serverQuery(criteria), h.config.PageSize)
	if err != nil {
		return nil, err
	}

	matched := screening.FilterAndSort(apps, criteria, key, dir)

	page := paginate(matched, input.Offset, input.Limit)
	output := &Output{
		Total:          len(matched),
		Fetched:        len(apps),
		ApplicationIDs: make([]string, 0, len(page)),
	}
	for _, app := range page {
		output.ApplicationIDs = append(output.ApplicationIDs, app.ID)
	}
	if input.IncludeApplications {
		output.Applications = page
	}

	h.logger.Info("applications filtered", map[string]interface{}{
		"jobId":   criteria.JobID,
		"fetched": output.Fetched,
		"matched": output.Total,
	})
	return output, nil
}

// serverQuery pushes the job and a concrete status down to the list endpoint.
func serverQuery(c screening.Criteria) recruitapi.Query {
	q := recruitapi.NewQuery()
	if c.JobID != "" {
		q = q.Where("jobId", recruitapi.OpEq, c.JobID)
	}
	if c.Status != "" && !strings.EqualFold(c.Status, screening.StatusAll) {
		if status, err := models.ParseStatus(c.Status); err == nil {
			q = q.Where("status", recruitapi.OpEq, string(status))
		}
	}
	return q
}

func paginate(apps []models.Application, offset, limit int) []models.Application {
	if offset >= len(apps) {
		return []models.Application{}
	}
	apps = apps[offset:]
	if limit > 0 && limit < len(apps) {
		apps = apps[:limit]
	}
	return apps
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
