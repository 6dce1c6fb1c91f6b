// internal/workers/screening/manage-questions/config.go
package managequestions

import "time"

type Config struct {
	Timeout time.Duration
}
