// cmd/screening-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	awsclients "recruit-screening/internal/common/aws"
	"recruit-screening/internal/common/camunda"
	"recruit-screening/internal/common/config"
	"recruit-screening/internal/common/database"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/common/observability"
	"recruit-screening/internal/common/session"
	"recruit-screening/internal/datasource"
	"recruit-screening/internal/notify"
	"recruit-screening/internal/recruitapi"
	"recruit-screening/internal/search"
	"recruit-screening/internal/store"
	"recruit-screening/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting screening manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("datasource", cfg.DataSource.Mode),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(camunda.ConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- PostgreSQL (evaluation snapshots) ---
	var pg *database.PostgresClient
	if cfg.Database.Postgres.Enabled() {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		if err := pg.Migrate(ctx); err != nil {
			zapLog.Fatal("postgres migration failed", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Redis (question cache) ---
	var rdb *database.RedisClient
	if cfg.DataSource.Mode == config.DataSourceLive && cfg.Database.Redis.Address != "" {
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			// the cache is optional; questions are read straight from the API
			zapLog.Warn("redis unavailable, question cache disabled", zap.Error(err))
			rdb = nil
		} else {
			defer rdb.Close()
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Elasticsearch (statistics snapshots) ---
	var es *database.ElasticsearchClient
	if cfg.Search.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			es, err = database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
			if err != nil {
				return err
			}
			return es.Ping()
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		if err := es.EnsureIndex(ctx, cfg.Search.StatisticsIndex, search.StatisticsMapping); err != nil {
			zapLog.Fatal("elasticsearch index setup failed", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Session, API client, data source ---
	var api *recruitapi.Client
	if cfg.DataSource.Mode == config.DataSourceLive {
		api = recruitapi.NewClient(cfg.API, loadSession(ctx, cfg.Session, zapLog), obs.Tracer(), log)
	}

	deps := &dependencies{cfg: cfg, obs: obs, log: log, api: api}

	var src datasource.Source
	if api != nil {
		src, err = datasource.New(cfg.DataSource, api, redisCmdable(rdb), log)
	} else {
		src, err = datasource.New(cfg.DataSource, nil, nil, log)
	}
	if err != nil {
		zapLog.Fatal("data source init failed", zap.Error(err))
	}
	deps.source = src

	if pg != nil {
		deps.evaluations = store.NewEvaluationStore(pg.DB, log)
	}
	if es != nil {
		deps.publisher = search.NewStatisticsIndex(es.Client, cfg.Search.StatisticsIndex, log)
	}
	if cfg.Notifications.Enabled {
		sesClient, snsClient, err := awsclients.NewClients(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws clients init failed", zap.Error(err))
		}
		deps.notifier = notify.NewNotifier(notify.Config{
			Enabled:   true,
			TopicARN:  cfg.Notifications.SNS.TopicARN,
			FromEmail: cfg.Notifications.SES.FromEmail,
			ToEmail:   cfg.Notifications.SES.ToEmail,
		}, sesClient, snsClient, log)
	}

	// --- Workers ---
	manager := camunda.NewManager(zeebe.Zeebe(), obs, log)
	reg := loadRegistry(cfg.App.RegistryPath, zapLog)
	if reg != nil {
		manager.WithValidator(reg)
	}
	registerWorkers(manager, deps)
	zapLog.Info("Workers registered", zap.Strings("taskTypes", manager.TaskTypes()))
	if reg != nil {
		if missing := reg.Missing(manager.TaskTypes()); len(missing) > 0 {
			zapLog.Warn("task types missing from activity registry", zap.Strings("taskTypes", missing))
		}
	}

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: healthMux(zeebe),
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	manager.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Screening manager stopped gracefully")
}

// loadSession reads the bearer token. A missing session is not fatal: API
// calls fail with AUTHENTICATION_MISSING until a token is stored.
func loadSession(ctx context.Context, cfg config.SessionConfig, log *zap.Logger) *session.Session {
	st, err := session.NewStore(cfg)
	if err != nil {
		log.Fatal("session store init failed", zap.Error(err))
	}
	sess, err := st.Load(ctx)
	if err != nil {
		log.Warn("no session loaded", zap.String("store", cfg.Store), zap.Error(err))
		return nil
	}
	return sess
}

// loadRegistry returns nil when the catalog is absent or broken; jobs then
// reach handlers unvalidated.
func loadRegistry(path string, log *zap.Logger) *registry.Registry {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", path), zap.Error(err))
		return nil
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid, input validation disabled", zap.String("path", path), zap.Error(err))
		return nil
	}
	log.Info("activity registry loaded", zap.String("version", reg.Version), zap.Int("activities", len(reg.Activities)))
	return reg
}

func healthMux(zeebe *camunda.Client) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", "")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := zeebe.HealthCheck(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", err.Error())
			return
		}
		writeStatus(w, http.StatusOK, "ready", "")
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status, reason string) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if reason != "" {
		body["reason"] = reason
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
