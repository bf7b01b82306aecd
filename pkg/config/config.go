// Package config defines the service configuration and its viper-based loader.
package config

import (
	"time"
)

const (
	// DatabaseTypeMongoDB stores documents in MongoDB.
	DatabaseTypeMongoDB = "mongodb"
	// DatabaseTypeMemory keeps documents in process memory; intended for local runs and tests.
	DatabaseTypeMemory = "memory"

	// EventBusTypeNone disables event publication.
	EventBusTypeNone = "none"
	// EventBusTypeKafka publishes events to Kafka.
	EventBusTypeKafka = "kafka"

	RateLimitTypeLocal = "local"
	RateLimitTypeRedis = "redis"
)

// Config is the root configuration of the storefront service.
type Config struct {
	RouterType    string              `mapstructure:"router_type" yaml:"router_type"`
	Service       ServiceConfig       `mapstructure:"service" yaml:"service"`
	HTTP          HTTPConfig          `mapstructure:"http" yaml:"http"`
	Management    ManagementConfig    `mapstructure:"management" yaml:"management"`
	CORS          CORSConfig          `mapstructure:"cors" yaml:"cors"`
	Database      DatabaseConfig      `mapstructure:"database" yaml:"database"`
	Auth          AuthConfig          `mapstructure:"auth" yaml:"auth"`
	EventBus      EventBusConfig      `mapstructure:"eventbus" yaml:"eventbus"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit" yaml:"rate_limit"`
	Observability ObservabilityConfig `mapstructure:"observability" yaml:"observability"`
}

// ServiceConfig identifies the running service.
type ServiceConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// HTTPConfig configures the public API server.
type HTTPConfig struct {
	Port         int           `mapstructure:"port" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	// RequestTimeout bounds each request end to end; zero disables the timeout middleware.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
}

// ManagementConfig configures the management server (health, readiness, metrics, version).
type ManagementConfig struct {
	Enabled      bool          `mapstructure:"enabled" yaml:"enabled"`
	Port         int           `mapstructure:"port" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// CORSConfig configures cross-origin resource sharing on the public server.
type CORSConfig struct {
	Enabled          bool          `mapstructure:"enabled" yaml:"enabled"`
	AllowOrigins     []string      `mapstructure:"allow_origins" yaml:"allow_origins"`
	AllowMethods     []string      `mapstructure:"allow_methods" yaml:"allow_methods"`
	AllowHeaders     []string      `mapstructure:"allow_headers" yaml:"allow_headers"`
	ExposeHeaders    []string      `mapstructure:"expose_headers" yaml:"expose_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age" yaml:"max_age"`
}

// DatabaseConfig selects and configures the document store.
type DatabaseConfig struct {
	Type           string        `mapstructure:"type" yaml:"type"`
	URL            string        `mapstructure:"url" yaml:"url"`
	Name           string        `mapstructure:"name" yaml:"name"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	// QueryTimeout bounds every store call.
	QueryTimeout time.Duration `mapstructure:"query_timeout" yaml:"query_timeout"`
}

// AuthConfig holds credential handling settings.
type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
}

// EventBusConfig configures domain event publication.
type EventBusConfig struct {
	Type             string        `mapstructure:"type" yaml:"type"`
	Brokers          []string      `mapstructure:"brokers" yaml:"brokers"`
	Topic            string        `mapstructure:"topic" yaml:"topic"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout" yaml:"operation_timeout"`
}

// RateLimitConfig configures per-client request rate limiting.
type RateLimitConfig struct {
	Enabled           bool                 `mapstructure:"enabled" yaml:"enabled"`
	Type              string               `mapstructure:"type" yaml:"type"`
	RequestsPerSecond int                  `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int                  `mapstructure:"burst" yaml:"burst"`
	Redis             RateLimitRedisConfig `mapstructure:"redis" yaml:"redis"`
}

// RateLimitRedisConfig configures the Redis-backed rate limiter backend.
type RateLimitRedisConfig struct {
	URL              string        `mapstructure:"url" yaml:"url"`
	Prefix           string        `mapstructure:"prefix" yaml:"prefix"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout" yaml:"operation_timeout"`
}

// ObservabilityConfig configures logging and tracing.
type ObservabilityConfig struct {
	LogLevel          string  `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string  `mapstructure:"log_format" yaml:"log_format"`
	TracingEnabled    bool    `mapstructure:"tracing_enabled" yaml:"tracing_enabled"`
	TracingEndpoint   string  `mapstructure:"tracing_endpoint" yaml:"tracing_endpoint"`
	TracingSampleRate float64 `mapstructure:"tracing_sample_rate" yaml:"tracing_sample_rate"`
}

// DefaultConfig returns a configuration that runs locally against MongoDB on localhost.
func DefaultConfig() *Config {
	return &Config{
		RouterType: "gin",
		Service: ServiceConfig{
			Name:        "storefront",
			Environment: "development",
		},
		HTTP: HTTPConfig{
			Port:           8080,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			IdleTimeout:    120 * time.Second,
			RequestTimeout: 15 * time.Second,
		},
		Management: ManagementConfig{
			Enabled:      true,
			Port:         8081,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		CORS: CORSConfig{
			Enabled:       false,
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        12 * time.Hour,
		},
		Database: DatabaseConfig{
			Type:           DatabaseTypeMongoDB,
			URL:            "mongodb://localhost:27017",
			Name:           "ecommerce",
			ConnectTimeout: 10 * time.Second,
			QueryTimeout:   5 * time.Second,
		},
		Auth: AuthConfig{
			BcryptCost: 10,
		},
		EventBus: EventBusConfig{
			Type:             EventBusTypeNone,
			Topic:            "storefront.orders",
			OperationTimeout: 5 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			Type:              RateLimitTypeLocal,
			RequestsPerSecond: 50,
			Burst:             100,
			Redis: RateLimitRedisConfig{
				Prefix:           "storefront:ratelimit",
				OperationTimeout: 500 * time.Millisecond,
			},
		},
		Observability: ObservabilityConfig{
			LogLevel:          "info",
			LogFormat:         "json",
			TracingEnabled:    false,
			TracingEndpoint:   "localhost:4317",
			TracingSampleRate: 1.0,
		},
	}
}
