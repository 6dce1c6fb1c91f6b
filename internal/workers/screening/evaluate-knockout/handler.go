// internal/workers/screening/evaluate-knockout/handler.go
package evaluateknockout

import (
	"context"
	"encoding/json"
	"time"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/common/metrics"
	"recruit-screening/internal/datasource"
	"recruit-screening/internal/screening"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "evaluate-knockout"
)

type Handler struct {
	config       *Config
	source       datasource.Source
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler. source is only needed when jobs omit questions.
func NewHandler(config *Config, source datasource.Source, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		source:       source,
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

	timeout := h.config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := screening.ValidateQuestions(input.Questions); err != nil {
		return nil, err
	}

	questions := input.Questions
	if questions == nil {
		if input.JobID == "" || h.source == nil {
			return nil, errors.NewValidationError("questions or jobId are required", "")
		}
		loaded, err := h.source.Questions(ctx, input.JobID)
		if err != nil {
			return nil, err
		}
		questions = loaded
	}

	result := screening.EvaluateKnockout(questions, input.Answers)

	count := 0
	for _, q := range questions {
		if q.IsKnockout {
			count++
		}
	}

	output := &Output{
		ApplicationID:   input.ApplicationID,
		Eliminate:       result.Eliminate,
		FailedKnockouts: []string{},
		ManualReview:    []string{},
		KnockoutCount:   count,
	}
	output.FailedKnockouts = append(output.FailedKnockouts, result.Failed...)
	output.ManualReview = append(output.ManualReview, result.ManualReview...)

	if result.Eliminate {
		h.logger.Info("applicant failed knockout questions", map[string]interface{}{
			"applicationId": input.ApplicationID,
			"failed":        result.Failed,
		})
	}
	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()

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
	h.errorHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
