// internal/workers/applications/filter-applications/config.go
package filterapplications

import "time"

type Config struct {
	Timeout  time.Duration
	PageSize int
}
