// internal/workers/profile/ensure-worker-profile/config.go
package ensureworkerprofile

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 60 * time.Second,
	}
}
