// internal/workers/screening/score-application/handler.go
package scoreapplication

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/common/metrics"
	"recruit-screening/internal/common/observability"
	"recruit-screening/internal/datasource"
	"recruit-screening/internal/recruitapi"
	"recruit-screening/internal/screening"
	"recruit-screening/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
)

const (
	TaskType = "score-application"
)

// EvaluationSaver persists evaluation snapshots.
type EvaluationSaver interface {
	Save(ctx context.Context, e store.Evaluation) (*store.Evaluation, error)
}

// ScreeningWriter patches an application's screening score.
type ScreeningWriter interface {
	UpdateScreening(ctx context.Context, applicationID string, update recruitapi.ScreeningUpdate) error
}

type Handler struct {
	config       *Config
	source       datasource.Source
	evaluations  EvaluationSaver
	writer       ScreeningWriter
	obs          *observability.Observability
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler. evaluations and writer may be nil.
func NewHandler(config *Config, source datasource.Source, evaluations EvaluationSaver, writer ScreeningWriter, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		source:       source,
		evaluations:  evaluations,
		writer:       writer,
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
	if strings.TrimSpace(input.ApplicationID) == "" {
		return nil, errors.NewValidationError("applicationId is required", "")
	}

	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.String("application.id", input.ApplicationID))
	defer span.End()

	if err := screening.ValidateQuestions(input.Questions); err != nil {
		return nil, err
	}

	questions := input.Questions
	if questions == nil {
		if input.JobID == "" {
			return nil, errors.NewValidationError("jobId is required when questions are not supplied", "")
		}
		loaded, err := h.source.Questions(ctx, input.JobID)
		if err != nil {
			return nil, err
		}
		questions = loaded
	}

	score := screening.Score(questions, input.Answers)
	knockout := screening.EvaluateKnockout(questions, input.Answers)

	output := &Output{
		ApplicationID:   input.ApplicationID,
		ScreeningScore:  score.Total,
		Scored:          score.Scored(),
		Breakdown:       orEmpty(score.Breakdown),
		Pending:         orEmpty(score.Pending),
		Eliminate:       knockout.Eliminate,
		FailedKnockouts: orEmpty(knockout.Failed),
		ManualReview:    orEmpty(knockout.ManualReview),
		EvaluationNotes: EvaluationNotes(knockout),
	}

	if h.evaluations != nil {
		saved, err := h.evaluations.Save(ctx, store.NewEvaluation(input.ApplicationID, input.JobID, score, knockout))
		if err != nil {
			return nil, err
		}
		output.EvaluationID = saved.ID
	}

	if h.config.WriteBack && h.writer != nil {
		update := recruitapi.ScreeningUpdate{
			ScreeningScore:  score.Total,
			EvaluationNotes: output.EvaluationNotes,
		}
		if err := h.writer.UpdateScreening(ctx, input.ApplicationID, update); err != nil {
			return nil, err
		}
	}

	h.logger.Info("application scored", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"scored":        output.Scored,
		"eliminate":     output.Eliminate,
		"pending":       len(output.Pending),
	})

	return output, nil
}

// EvaluationNotes summarizes the knockout outcome for reviewers.
func EvaluationNotes(k screening.KnockoutResult) string {
	var parts []string
	if k.Eliminate {
		parts = append(parts, fmt.Sprintf("Failed knockout questions: %s", strings.Join(k.Failed, ", ")))
	}
	if len(k.ManualReview) > 0 {
		parts = append(parts, fmt.Sprintf("Needs manual review: %s", strings.Join(k.ManualReview, ", ")))
	}
	return strings.Join(parts, ". ")
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
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
