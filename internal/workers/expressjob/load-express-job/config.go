// internal/workers/expressjob/load-express-job/config.go
package loadexpressjob

import "time"

type Config struct {
	Timeout time.Duration
	// Prefetch toggles loading applicant photos and review stats.
	Prefetch bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		Prefetch: true,
	}
}
