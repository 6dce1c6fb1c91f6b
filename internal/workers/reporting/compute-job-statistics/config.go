// internal/workers/reporting/compute-job-statistics/config.go
package computejobstatistics

import "time"

type Config struct {
	Timeout   time.Duration
	TopSkills int
	PageSize  int
	// Publish is the default when a job does not set "publish".
	Publish bool
}
