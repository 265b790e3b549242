// Package config provides centralized configuration management. It
// loads settings from environment variables with sensible defaults and
// validates everything on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Convert ConvertConfig
	Rates   RatesConfig
	Rate    RateLimitConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 3000)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"3000"`

	// PortRetries is how many consecutive ports to try when the
	// configured one is busy (default: 1)
	PortRetries int `env:"SERVER_PORT_RETRIES" default:"1"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// ConvertConfig holds CSV conversion processing settings.
type ConvertConfig struct {
	// MaxFileSize is the maximum upload size in bytes (default: 10MB)
	MaxFileSize int64 `env:"CONVERT_MAX_FILE_SIZE" default:"10485760"`

	// MaxConcurrent is the maximum number of parallel conversion
	// requests (default: 5)
	MaxConcurrent int `env:"CONVERT_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for a conversion slot (default: 30s)
	MaxWaitTime time.Duration `env:"CONVERT_MAX_WAIT_TIME" default:"30s"`

	// RowWorkers bounds parallel row processing within one batch (default: 8)
	RowWorkers int `env:"CONVERT_ROW_WORKERS" default:"8"`

	// ArtifactTTL is how long undownloaded output files are kept (default: 10m)
	ArtifactTTL time.Duration `env:"CONVERT_ARTIFACT_TTL" default:"10m"`
}

// RatesConfig holds exchange rate lookup settings.
type RatesConfig struct {
	// Source selects the lookup strategy: "auto" tries the live API and
	// falls back to the static table, "static" uses the table only
	// (default: auto)
	Source string `env:"RATES_SOURCE" default:"auto"`

	// APIKey authenticates against exchangerate-api.com. Required for
	// live lookups; without it every lookup falls back to static rates.
	APIKey string `env:"EXCHANGE_RATE_API_KEY"`

	// APITimeout bounds a single history lookup (default: 10s)
	APITimeout time.Duration `env:"RATES_API_TIMEOUT" default:"10s"`
}

// RateLimitConfig holds per-IP request limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.AddrForPort(c.Port)
}

// AddrForPort returns the listen address for an alternate port, used
// when retrying a busy port.
func (c *ServerConfig) AddrForPort(port int) string {
	return c.Host + ":" + strconv.Itoa(port)
}

// StaticOnly reports whether live rate lookups are disabled.
func (c *RatesConfig) StaticOnly() bool {
	return c.Source == "static"
}
