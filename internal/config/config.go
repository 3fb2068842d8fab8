// Package config provides configuration management for the AceBet API.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	Model     ModelConfig     `mapstructure:"model" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Health    HealthConfig    `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Host            string   `mapstructure:"host"`
	Port            int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSec  int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSec int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// AuthConfig represents token issuance and credential directory configuration
type AuthConfig struct {
	SecretKey       string         `mapstructure:"secret_key" validate:"required,min=32"`
	TokenTTLMinutes int            `mapstructure:"token_ttl_minutes" validate:"required,gt=0"`
	Backend         string         `mapstructure:"backend" validate:"required,oneof=memory postgres"`
	Database        DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig represents the Postgres credential directory connection
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// RateLimitConfig represents per-client admission control budgets
type RateLimitConfig struct {
	RequestsPerMinute     int `mapstructure:"requests_per_minute" validate:"required,gt=0"`
	DemoRequestsPerMinute int `mapstructure:"demo_requests_per_minute" validate:"required,gt=0"`
	ClientTTLMinutes      int `mapstructure:"client_ttl_minutes" validate:"required,gt=0"`
}

// DataConfig represents dataset snapshot and artifact directory locations
type DataConfig struct {
	ProductionFile string `mapstructure:"production_file" validate:"required"`
	SampleFile     string `mapstructure:"sample_file" validate:"required"`
	ModelDir       string `mapstructure:"model_dir" validate:"required"`
	SampleModelDir string `mapstructure:"sample_model_dir" validate:"required"`
	SnapshotURL    string `mapstructure:"snapshot_url" validate:"omitempty,url"`
}

// ModelConfig represents estimator invocation tunables
type ModelConfig struct {
	CacheEnabled      bool `mapstructure:"cache_enabled"`
	PredictTimeoutSec int  `mapstructure:"predict_timeout_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// HealthConfig represents the health check server configuration
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// TokenTTL returns the access token lifetime as a duration
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// PredictTimeout returns the estimator invocation deadline as a duration
func (c *Config) PredictTimeout() time.Duration {
	return time.Duration(c.Model.PredictTimeoutSec) * time.Second
}

// GetDatabaseDSN returns a PostgreSQL DSN for the credential directory
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Auth.Database.User,
		c.Auth.Database.Password,
		c.Auth.Database.Host,
		c.Auth.Database.Port,
		c.Auth.Database.Name,
		c.Auth.Database.SSLMode,
	)
}
