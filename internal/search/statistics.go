// internal/search/statistics.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"recruit-screening/internal/common/errors"
	"recruit-screening/internal/common/logger"
	"recruit-screening/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// DefaultStatisticsIndex holds one document per job per day.
const DefaultStatisticsIndex = "job-statistics"

// StatisticsMapping is applied when the index is created.
const StatisticsMapping = `{
  "mappings": {
    "properties": {
      "jobId":        {"type": "keyword"},
      "snapshotDate": {"type": "date", "format": "yyyy-MM-dd"},
      "publishedAt":  {"type": "date"},
      "total":        {"type": "integer"},
      "averageScore": {"type": "float"},
      "scoredCount":  {"type": "integer"},
      "byStatus":     {"type": "object"},
      "daily":        {"type": "nested"},
      "topSkills":    {"type": "nested"}
    }
  }
}`

// StatisticsDocument is what gets indexed.
type StatisticsDocument struct {
	models.JobStatistics
	SnapshotDate string    `json:"snapshotDate"`
	PublishedAt  time.Time `json:"publishedAt"`
}

// StatisticsIndex publishes job statistics snapshots to Elasticsearch.
type StatisticsIndex struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
	now    func() time.Time
}

func NewStatisticsIndex(es *elasticsearch.Client, index string, log logger.Logger) *StatisticsIndex {
	if index == "" {
		index = DefaultStatisticsIndex
	}
	return &StatisticsIndex{
		es:     es,
		index:  index,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// DocumentID is <jobId>:<yyyy-mm-dd>, so republishing on the same day overwrites.
func DocumentID(jobID string, at time.Time) string {
	return fmt.Sprintf("%s:%s", jobID, at.UTC().Format("2006-01-02"))
}

// Publish indexes stats under today's document id and returns it.
func (s *StatisticsIndex) Publish(ctx context.Context, jobID string, stats models.JobStatistics) (string, error) {
	now := s.now()
	stats.JobID = jobID
	doc := StatisticsDocument{
		JobStatistics: stats,
		SnapshotDate:  now.Format("2006-01-02"),
		PublishedAt:   now,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return "", errors.NewSearchIndexFailedError(s.index, err)
	}

	id := DocumentID(jobID, now)
	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: id,
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, s.es)
	if err != nil {
		return "", errors.NewSearchIndexFailedError(s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		excerpt, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", errors.NewSearchIndexFailedError(s.index, fmt.Errorf("%s: %s", res.Status(), excerpt))
	}

	s.logger.Info("job statistics published", map[string]interface{}{
		"index":      s.index,
		"documentId": id,
		"total":      stats.Total,
	})
	return id, nil
}
