// internal/workers/expressjob/manage-express-job/config.go
package manageexpressjob

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
