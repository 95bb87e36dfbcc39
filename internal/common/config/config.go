// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	API      APIConfig               `mapstructure:"api"`
	Cache    CacheConfig             `mapstructure:"cache"`
	Audit    AuditConfig             `mapstructure:"audit"`
	Catalog  CatalogConfig           `mapstructure:"catalog"`
	Profile  ProfileConfig           `mapstructure:"profile"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Registry RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	HealthAddr  string `mapstructure:"health_addr"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// APIConfig points at the Outy REST API.
type APIConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	Token          string  `mapstructure:"token"` // service token used by tools; workers use the job's token
	Timeout        int     `mapstructure:"timeout"` // milliseconds
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// CacheConfig configures the session cache. An empty address keeps the
// cache in process memory.
type CacheConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTL      int    `mapstructure:"ttl"` // seconds
	Prefix   string `mapstructure:"prefix"`
}

// AuditConfig configures the Postgres audit trail of workflow outcomes.
type AuditConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"sslmode"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
}

// GetDSN returns the PostgreSQL connection string
func (a AuditConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		a.Host, a.Port, a.User, a.Password, a.Database, a.SSLMode,
	)
}

// CatalogConfig bounds the paginated location catalog load.
type CatalogConfig struct {
	PageSize int `mapstructure:"page_size"`
	MaxPages int `mapstructure:"max_pages"`
}

// ProfileConfig bounds the worker-profile scan.
type ProfileConfig struct {
	ScanPageSize int `mapstructure:"scan_page_size"`
	ScanLimit    int `mapstructure:"scan_limit"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// RegistryConfig locates the activity registry maintained by the tools.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
