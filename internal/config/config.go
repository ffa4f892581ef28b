// Package config loads the service configuration from environment variables.
// Defaults are applied for unset values and everything is validated on
// startup so misconfiguration fails fast.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	HTTP     HTTPConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: all interfaces)
	Host string `env:"SERVER_HOST"`

	// Port is the port to listen on (default: 5000)
	Port int `env:"PORT" envAlt:"SERVER_PORT" default:"5000"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	// Path is the SQLite file, or ":memory:" for a throwaway database
	Path string `env:"DB_PATH" envAlt:"DATABASE_PATH" default:"data/app.db"`
}

// HTTPConfig holds request handling settings.
type HTTPConfig struct {
	// CORSOrigins is a comma-separated list of allowed origins; "*" allows any
	CORSOrigins []string `env:"CORS_ORIGINS" default:"http://localhost:5173"`

	// MaxBodyBytes caps request bodies (default: 10 MiB)
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" default:"10485760"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the listen address in host:port form.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
