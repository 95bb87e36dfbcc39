// internal/workers/expressjob/apply-express-job/config.go
package applyexpressjob

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
