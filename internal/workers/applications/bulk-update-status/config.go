// internal/workers/applications/bulk-update-status/config.go
package bulkupdatestatus

import "time"

type Config struct {
	Timeout time.Duration
	// RatePerSecond paces status updates; 0 sends them back to back.
	RatePerSecond float64
}
