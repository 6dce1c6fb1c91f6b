// internal/workers/applications/filter-applications/models.go
package filterapplications

import "recruit-screening/internal/models"

type Input struct {
	JobID   string                 `json:"jobId"`
	Filters map[string]interface{} `json:"filters"`
	// SortBy is "newest", "oldest" or "score", optionally suffixed ":asc" or ":desc".
	SortBy string `json:"sortBy"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
	// IncludeApplications returns full records, not just ids.
	IncludeApplications bool `json:"includeApplications"`
}

type Output struct {
	Total          int                  `json:"total"`
	Fetched        int                  `json:"fetched"`
	ApplicationIDs []string             `json:"applicationIds"`
	Applications   []models.Application `json:"applications,omitempty"`
}
