// internal/workers/expressjob/complete-express-job/config.go
package completeexpressjob

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
