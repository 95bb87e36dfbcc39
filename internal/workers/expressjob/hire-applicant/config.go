// internal/workers/expressjob/hire-applicant/config.go
package hireapplicant

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
