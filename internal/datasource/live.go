// internal/datasource/live.go
package datasource

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/common/metrics"
	"recruit-screening/internal/models"
	"recruit-screening/internal/recruitapi"

	"github.com/redis/go-redis/v9"
)

const questionKeyPrefix = "screening:questions:"

// QuestionCacheKey is the Redis key holding a job posting's questions.
func QuestionCacheKey(jobPostID string) string {
	return questionKeyPrefix + jobPostID
}

// Live reads through the REST API. Question lists are cached in Redis; any
// cache failure falls back to the API.
type Live struct {
	api    API
	cache  redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewLive(api API, cache redis.Cmdable, ttl time.Duration, log logger.Logger) *Live {
	return &Live{
		api:    api,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "datasource"}),
	}
}

func (l *Live) cacheEnabled() bool {
	return l.cache != nil && l.ttl > 0
}

func (l *Live) Questions(ctx context.Context, jobPostID string) ([]models.ScreeningQuestion, error) {
	key := QuestionCacheKey(jobPostID)

	if l.cacheEnabled() {
		val, err := l.cache.Get(ctx, key).Result()
		switch {
		case err == nil:
			var questions []models.ScreeningQuestion
			if jerr := json.Unmarshal([]byte(val), &questions); jerr == nil {
				metrics.QuestionCache.WithLabelValues("hit").Inc()
				return questions, nil
			}
			metrics.QuestionCache.WithLabelValues("corrupt").Inc()
		case stderrors.Is(err, redis.Nil):
			metrics.QuestionCache.WithLabelValues("miss").Inc()
		default:
			metrics.QuestionCache.WithLabelValues("error").Inc()
			l.logger.Warn("question cache unavailable", map[string]interface{}{
				"jobPostId": jobPostID,
				"error":     errors.NewCacheUnavailableError(err),
			})
		}
	}

	questions, err := l.api.ListQuestions(ctx, jobPostID)
	if err != nil {
		return nil, err
	}

	if l.cacheEnabled() {
		data, _ := json.Marshal(questions)
		if err := l.cache.Set(ctx, key, data, l.ttl).Err(); err != nil {
			l.logger.Warn("question cache write failed", map[string]interface{}{
				"jobPostId": jobPostID,
				"error":     err,
			})
		}
	}
	return questions, nil
}

// Invalidate drops the cached questions after a write.
func (l *Live) Invalidate(ctx context.Context, jobPostID string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Del(ctx, QuestionCacheKey(jobPostID)).Err(); err != nil {
		l.logger.Warn("question cache invalidation failed", map[string]interface{}{
			"jobPostId": jobPostID,
			"error":     err,
		})
	}
}

func (l *Live) Applications(ctx context.Context, q recruitapi.Query) (*models.ApplicationPage, error) {
	return l.api.ListApplications(ctx, q)
}
