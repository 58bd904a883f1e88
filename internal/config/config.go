package config

import (
	"time"

	"github.com/etcher-be/igit/internal/adapter/rest"
)

// Config represents the full application configuration.
type Config struct {
	GitHub  HostConfig    `yaml:"github"`
	GitLab  HostConfig    `yaml:"gitlab"`
	Git     GitConfig     `yaml:"git"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// HostConfig configures one hosting site.
type HostConfig struct {
	Token string `yaml:"token"`

	// BaseURL overrides the public API endpoint, for self-hosted
	// installations.
	BaseURL string `yaml:"baseURL,omitempty"`
}

// GitConfig configures the local repository backend.
type GitConfig struct {
	RepositoryDir string `yaml:"repositoryDir"`
}

// HTTPConfig holds global HTTP client settings.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// LoggingConfig configures request/response logging.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, error
	Format  string `yaml:"format"` // json, human
}

// TimeoutDuration parses the HTTP timeout, falling back to 30s.
func (h HTTPConfig) TimeoutDuration() time.Duration {
	return parseDuration(h.Timeout, 30*time.Second)
}

// RetryConfig converts the HTTP settings into a rest retry configuration.
// Unset fields keep the rest defaults.
func (h HTTPConfig) RetryConfig() rest.RetryConfig {
	conf := rest.DefaultRetryConfig()
	if h.MaxRetries > 0 {
		conf.MaxRetries = h.MaxRetries
	}
	conf.InitialBackoff = parseDuration(h.InitialBackoff, conf.InitialBackoff)
	conf.MaxBackoff = parseDuration(h.MaxBackoff, conf.MaxBackoff)
	if h.BackoffMultiplier > 1 {
		conf.Multiplier = h.BackoffMultiplier
	}
	return conf
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// RestLogger builds the rest logger described by the logging settings, or
// nil when logging is disabled.
func (l LoggingConfig) RestLogger() rest.Logger {
	if !l.Enabled {
		return nil
	}

	level := rest.LogLevelInfo
	switch l.Level {
	case "debug":
		level = rest.LogLevelDebug
	case "error":
		level = rest.LogLevelError
	}

	format := rest.LogFormatHuman
	if l.Format == "json" {
		format = rest.LogFormatJSON
	}
	return rest.NewDefaultLogger(level, format)
}
