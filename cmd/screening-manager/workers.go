package main

import (
	"recruit-screening/internal/common/camunda"
	"recruit-screening/internal/common/config"
	"recruit-screening/internal/common/database"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/common/observability"
	"recruit-screening/internal/datasource"
	"recruit-screening/internal/recruitapi"
	"recruit-screening/internal/screening"

	"github.com/redis/go-redis/v9"

	bus "recruit-screening/internal/workers/applications/bulk-update-status"
	fa "recruit-screening/internal/workers/applications/filter-applications"
	cjs "recruit-screening/internal/workers/reporting/compute-job-statistics"
	ek "recruit-screening/internal/workers/screening/evaluate-knockout"
	mq "recruit-screening/internal/workers/screening/manage-questions"
	sa "recruit-screening/internal/workers/screening/score-application"
)

// dependencies are the optional collaborators; nil fields switch features off.
type dependencies struct {
	cfg         *config.Config
	obs         *observability.Observability
	log         logger.Logger
	api         *recruitapi.Client
	source      datasource.Source
	evaluations sa.EvaluationSaver
	publisher   cjs.Publisher
	notifier    bus.Notifier
}

func registerWorkers(m *camunda.Manager, d *dependencies) {
	cfg := d.cfg

	// --- Screening ---
	{
		taskType := sa.TaskType
		wcfg := config.GetWorkerConfig(cfg, taskType)
		var writer sa.ScreeningWriter
		if d.api != nil {
			writer = d.api
		}
		handler := sa.NewHandler(&sa.Config{
			Timeout:   config.GetDuration(wcfg.Timeout),
			WriteBack: cfg.Screening.WriteBack,
		}, d.source, d.evaluations, writer, d.obs, d.log)
		m.Register(taskType, wcfg, handler.Handle)
	}
	{
		taskType := ek.TaskType
		wcfg := config.GetWorkerConfig(cfg, taskType)
		handler := ek.NewHandler(&ek.Config{
			Timeout: config.GetDuration(wcfg.Timeout),
		}, d.source, d.log)
		m.Register(taskType, wcfg, handler.Handle)
	}
	{
		taskType := mq.TaskType
		wcfg := config.GetWorkerConfig(cfg, taskType)
		if d.api == nil {
			d.log.Warn("manage-questions needs the live data source, not registering", nil)
		} else {
			var cache mq.CacheInvalidator
			if live, ok := d.source.(*datasource.Live); ok {
				cache = live
			}
			handler := mq.NewHandler(&mq.Config{
				Timeout: config.GetDuration(wcfg.Timeout),
			}, d.api, cache, d.log)
			m.Register(taskType, wcfg, handler.Handle)
		}
	}

	// --- Applications ---
	{
		taskType := fa.TaskType
		wcfg := config.GetWorkerConfig(cfg, taskType)
		handler := fa.NewHandler(&fa.Config{
			Timeout:  config.GetDuration(wcfg.Timeout),
			PageSize: cfg.Screening.PageSize,
		}, d.source, d.obs, d.log)
		m.Register(taskType, wcfg, handler.Handle)
	}
	{
		taskType := bus.TaskType
		wcfg := config.GetWorkerConfig(cfg, taskType)
		if updater := statusUpdater(d); updater != nil {
			handler := bus.NewHandler(&bus.Config{
				Timeout:       config.GetDuration(wcfg.Timeout),
				RatePerSecond: cfg.Screening.BulkRateLimit,
			}, updater, d.notifier, d.obs, d.log)
			m.Register(taskType, wcfg, handler.Handle)
		}
	}

	// --- Reporting ---
	{
		taskType := cjs.TaskType
		wcfg := config.GetWorkerConfig(cfg, taskType)
		handler := cjs.NewHandler(&cjs.Config{
			Timeout:   config.GetDuration(wcfg.Timeout),
			TopSkills: cfg.Screening.TopSkills,
			PageSize:  cfg.Screening.PageSize,
			Publish:   d.publisher != nil,
		}, d.source, d.publisher, d.obs, d.log)
		m.Register(taskType, wcfg, handler.Handle)
	}
}

// statusUpdater is the REST client in live mode and the fixture itself otherwise.
func statusUpdater(d *dependencies) screening.StatusUpdater {
	if d.api != nil {
		return d.api
	}
	if fixture, ok := d.source.(*datasource.Fixture); ok {
		return fixture
	}
	return nil
}

// redisCmdable keeps a nil client a nil interface.
func redisCmdable(c *database.RedisClient) redis.Cmdable {
	if c == nil {
		return nil
	}
	return c.Client
}
