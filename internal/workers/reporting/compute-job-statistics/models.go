// internal/workers/reporting/compute-job-statistics/models.go
package computejobstatistics

import "recruit-screening/internal/models"

type Input struct {
	JobID   string `json:"jobId"`
	Publish *bool  `json:"publish,omitempty"`
}

type Output struct {
	Statistics models.JobStatistics `json:"statistics"`
	Published  bool                 `json:"published"`
	DocumentID string               `json:"documentId,omitempty"`
}
