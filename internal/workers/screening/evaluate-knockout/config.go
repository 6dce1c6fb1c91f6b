// internal/workers/screening/evaluate-knockout/config.go
package evaluateknockout

import "time"

type Config struct {
	Timeout time.Duration
}
