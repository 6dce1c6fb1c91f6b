// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"time"

	"recruit-screening/internal/common/config"
	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/common/metrics"
	"recruit-screening/internal/common/observability"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// HandlerFunc matches the Handle method of every worker package.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// InputValidator checks raw job variables before a handler runs.
type InputValidator interface {
	ValidateInput(taskType string, variables []byte) error
}

// Manager opens one job worker per enabled task type.
type Manager struct {
	client    zbc.Client
	obs       *observability.Observability
	logger    logger.Logger
	validator InputValidator
	workers   []worker.JobWorker
	taskTypes []string
}

func NewManager(client zbc.Client, obs *observability.Observability, log logger.Logger) *Manager {
	return &Manager{
		client: client,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"component": "worker-manager"}),
	}
}

// WithValidator rejects jobs whose variables fail v before they reach a handler.
// Workers registered earlier are not affected.
func (m *Manager) WithValidator(v InputValidator) *Manager {
	m.validator = v
	return m
}

// Register opens a job worker for taskType when wcfg enables it.
func (m *Manager) Register(taskType string, wcfg config.WorkerConfig, handler HandlerFunc) bool {
	if !wcfg.Enabled {
		m.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	if m.validator != nil {
		errorHandler := errors.NewErrorHandler(m.logger)
		handler = Validate(taskType, m.validator, func(client worker.JobClient, job entities.Job, err error) {
			metrics.WorkerJobsFailed.WithLabelValues(taskType, string(errors.AsStandard(err).Code)).Inc()
			errorHandler.HandleJobError(context.Background(), client, job, err)
		}, handler)
	}

	jw := m.client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(Instrument(taskType, m.obs, handler))).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	m.workers = append(m.workers, jw)
	m.taskTypes = append(m.taskTypes, taskType)

	m.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// TaskTypes lists the registered task types in registration order.
func (m *Manager) TaskTypes() []string {
	return append([]string(nil), m.taskTypes...)
}

// Close stops polling and waits for in-flight jobs.
func (m *Manager) Close() {
	for i, jw := range m.workers {
		m.logger.Info("stopping worker", map[string]interface{}{"taskType": m.taskTypes[i]})
		jw.Close()
		jw.AwaitClose()
	}
	m.workers = nil
}

// Instrument tracks active jobs and processing time around handler.
func Instrument(taskType string, obs *observability.Observability, handler HandlerFunc) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		handler(client, job)
		elapsed := time.Since(start)

		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(elapsed.Seconds())
		obs.RecordJobDuration(context.Background(), taskType, elapsed, "handled")
	}
}

// Validate runs handler only for jobs whose variables pass v; the rest go to reject.
func Validate(taskType string, v InputValidator, reject func(worker.JobClient, entities.Job, error), handler HandlerFunc) HandlerFunc {
	return func(client worker.JobClient, job entities.Job) {
		if err := v.ValidateInput(taskType, []byte(job.Variables)); err != nil {
			reject(client, job, err)
			return
		}
		handler(client, job)
	}
}
