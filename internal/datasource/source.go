// internal/datasource/source.go
package datasource

import (
	"context"
	"fmt"
	"time"

	"recruit-screening/internal/common/config"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/models"
	"recruit-screening/internal/recruitapi"

	"github.com/redis/go-redis/v9"
)

// Source supplies questions and applications to the workers.
type Source interface {
	Questions(ctx context.Context, jobPostID string) ([]models.ScreeningQuestion, error)
	Applications(ctx context.Context, q recruitapi.Query) (*models.ApplicationPage, error)
}

// API is the part of the REST client a live source reads through.
type API interface {
	ListQuestions(ctx context.Context, jobPostID string) ([]models.ScreeningQuestion, error)
	ListApplications(ctx context.Context, q recruitapi.Query) (*models.ApplicationPage, error)
}

// New picks the source for cfg.Mode. rdb may be nil to disable the question cache.
func New(cfg config.DataSourceConfig, api API, rdb redis.Cmdable, log logger.Logger) (Source, error) {
	switch cfg.Mode {
	case config.DataSourceLive, "":
		if api == nil {
			return nil, fmt.Errorf("live data source needs an API client")
		}
		ttl := time.Duration(cfg.QuestionCacheTTL) * time.Second
		return NewLive(api, rdb, ttl, log), nil
	case config.DataSourceFixture:
		return LoadFixture(cfg.FixturePath)
	}
	return nil, fmt.Errorf("unknown data source mode %q", cfg.Mode)
}
