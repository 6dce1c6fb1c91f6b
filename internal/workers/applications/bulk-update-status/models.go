// internal/workers/applications/bulk-update-status/models.go
package bulkupdatestatus

import "recruit-screening/internal/screening"

type Input struct {
	JobID          string   `json:"jobId"`
	ApplicationIDs []string `json:"applicationIds"`
	Status         string   `json:"status"`
}

type Output struct {
	Status    string                  `json:"status"`
	Requested int                     `json:"requested"`
	Succeeded []string                `json:"succeeded"`
	Failed    []screening.BulkFailure `json:"failed"`
	Notice    string                  `json:"notice"`
	Notified  bool                    `json:"notified"`
}
