// internal/workers/screening/manage-questions/handler.go
package managequestions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/common/metrics"
	"recruit-screening/internal/common/validation"
	"recruit-screening/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "manage-questions"
)

// QuestionAPI is the pre-screening-questions part of the REST client.
type QuestionAPI interface {
	ListQuestions(ctx context.Context, jobPostID string) ([]models.ScreeningQuestion, error)
	CreateQuestion(ctx context.Context, q models.ScreeningQuestion) (*models.ScreeningQuestion, error)
	UpdateQuestion(ctx context.Context, q models.ScreeningQuestion) (*models.ScreeningQuestion, error)
	ReplaceQuestion(ctx context.Context, q models.ScreeningQuestion) (*models.ScreeningQuestion, error)
	DeleteQuestion(ctx context.Context, id string) error
}

// CacheInvalidator drops cached questions for a job posting.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, jobPostID string)
}

type Handler struct {
	config       *Config
	api          QuestionAPI
	cache        CacheInvalidator
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

// NewHandler builds the handler; cache may be nil.
func NewHandler(config *Config, api QuestionAPI, cache CacheInvalidator, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		api:          api,
		cache:        cache,
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
	action := Action(strings.ToLower(strings.TrimSpace(string(input.Action))))
	output := &Output{Action: action}

	switch action {
	case ActionList:
		if input.JobPostID == "" {
			return nil, errors.NewValidationError("jobPostId is required", "")
		}
		questions, err := h.api.ListQuestions(ctx, input.JobPostID)
		if err != nil {
			return nil, err
		}
		output.Questions = questions
		output.Notice = fmt.Sprintf("%d question(s)", len(questions))

	case ActionCreate, ActionUpdate, ActionReplace:
		if input.Question == nil {
			return nil, errors.NewQuestionValidationError("question is required")
		}
		q := *input.Question
		if q.JobPostID == "" {
			q.JobPostID = input.JobPostID
		}
		if action != ActionCreate && q.ID == "" {
			q.ID = input.QuestionID
		}
		if action != ActionCreate && q.ID == "" {
			return nil, errors.NewQuestionValidationError("question id is required")
		}
		if err := validation.ValidateQuestion(q); err != nil {
			return nil, err
		}

		saved, err := h.write(ctx, action, q)
		if err != nil {
			return nil, err
		}
		h.invalidate(ctx, q.JobPostID)
		output.Question = saved
		output.Notice = noticeFor(action)

	case ActionDelete:
		if input.QuestionID == "" {
			return nil, errors.NewValidationError("questionId is required", "")
		}
		if err := h.api.DeleteQuestion(ctx, input.QuestionID); err != nil {
			return nil, err
		}
		h.invalidate(ctx, input.JobPostID)
		output.Deleted = true
		output.Notice = noticeFor(action)

	default:
		return nil, errors.NewValidationError("unknown action", fmt.Sprintf("action: %q", input.Action))
	}

	h.logger.Info("questions managed", map[string]interface{}{
		"action":    action,
		"jobPostId": input.JobPostID,
	})
	return output, nil
}

func (h *Handler) write(ctx context.Context, action Action, q models.ScreeningQuestion) (*models.ScreeningQuestion, error) {
	switch action {
	case ActionCreate:
		return h.api.CreateQuestion(ctx, q)
	case ActionUpdate:
		return h.api.UpdateQuestion(ctx, q)
	default:
		return h.api.ReplaceQuestion(ctx, q)
	}
}

func (h *Handler) invalidate(ctx context.Context, jobPostID string) {
	if h.cache != nil && jobPostID != "" {
		h.cache.Invalidate(ctx, jobPostID)
	}
}

func noticeFor(action Action) string {
	switch action {
	case ActionCreate:
		return "Screening question created"
	case ActionDelete:
		return "Screening question deleted"
	default:
		return "Screening question updated"
	}
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
