// Package config loads server configuration from defaults, an optional
// config file, and environment variables, in that order of precedence
// (lowest to highest), with explicit runtime overrides on top.
package config

import (
	"time"
)

// Deploy modes. Local mode signs requests with static keys from
// configuration; web mode requires short-lived credentials on each
// request's Authorization header.
const (
	DeployLocal = "local"
	DeployWeb   = "web"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	TOS     TOSConfig     `mapstructure:"tos"`
}

// ServerConfig controls the HTTP transports.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig controls the zap loggers.
type LoggingConfig struct {
	// Level is a zap level name: debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Encoding is "json" or "console".
	Encoding string `mapstructure:"encoding"`
}

// TOSConfig holds the storage connection settings.
type TOSConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Region   string `mapstructure:"region"`

	// AccessKey, SecretKey and SecurityToken are used in local deploy
	// mode only; web mode takes credentials from the request.
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	SecurityToken string `mapstructure:"security_token"`

	// DeployMode is "local" or "web".
	DeployMode string `mapstructure:"deploy_mode"`

	// MaxObjectSize caps response bodies in bytes.
	MaxObjectSize int64 `mapstructure:"max_object_size"`

	// Buckets restricts operations to the named buckets when non-empty.
	Buckets []string `mapstructure:"buckets"`
}

// WebDeploy reports whether per-request credentials are required.
func (c *Config) WebDeploy() bool {
	return c.TOS.DeployMode == DeployWeb
}
