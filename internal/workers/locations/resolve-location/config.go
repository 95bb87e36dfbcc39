// internal/workers/locations/resolve-location/config.go
package resolvelocation

import "time"

type Config struct {
	Timeout time.Duration
	// DefaultLimit caps suggestions when the job does not set a limit.
	DefaultLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      2 * time.Minute,
		DefaultLimit: 20,
	}
}
