// internal/workers/screening/score-application/config.go
package scoreapplication

import "time"

type Config struct {
	Timeout time.Duration
	// WriteBack patches the computed score onto the application.
	WriteBack bool
}
