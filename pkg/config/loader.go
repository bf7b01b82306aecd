package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DefaultEnvPrefix is used when the loader is created without a prefix.
const DefaultEnvPrefix = "STOREFRONT"

// Loader defines the interface for loading configuration
type Loader interface {
	Load() (*Config, error)
	Validate(*Config) error
}

// ViperLoader implements Loader using Viper. Precedence: env > file > defaults.
type ViperLoader struct {
	configFile string
	envPrefix  string
}

// NewViperLoader creates a new ViperLoader. configFile may be empty.
func NewViperLoader(configFile, envPrefix string) *ViperLoader {
	return &ViperLoader{
		configFile: configFile,
		envPrefix:  envPrefix,
	}
}

// Load reads defaults, the optional config file and the environment, then validates.
func (l *ViperLoader) Load() (*Config, error) {
	v := viper.New()

	l.setDefaults(v, DefaultConfig())

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	if err := l.bindEnvVars(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envBindings maps config keys to environment suffixes.
var envBindings = []struct {
	key    string
	suffix string
}{
	{"router_type", "ROUTER_TYPE"},
	{"service.name", "SERVICE_NAME"},
	{"service.environment", "SERVICE_ENVIRONMENT"},

	{"http.port", "HTTP_PORT"},
	{"http.read_timeout", "HTTP_READ_TIMEOUT"},
	{"http.write_timeout", "HTTP_WRITE_TIMEOUT"},
	{"http.idle_timeout", "HTTP_IDLE_TIMEOUT"},
	{"http.request_timeout", "HTTP_REQUEST_TIMEOUT"},

	{"management.enabled", "MGMT_ENABLED"},
	{"management.port", "MGMT_PORT"},
	{"management.read_timeout", "MGMT_READ_TIMEOUT"},
	{"management.write_timeout", "MGMT_WRITE_TIMEOUT"},

	{"cors.enabled", "CORS_ENABLED"},
	{"cors.allow_origins", "CORS_ALLOW_ORIGINS"},
	{"cors.allow_methods", "CORS_ALLOW_METHODS"},
	{"cors.allow_headers", "CORS_ALLOW_HEADERS"},
	{"cors.expose_headers", "CORS_EXPOSE_HEADERS"},
	{"cors.allow_credentials", "CORS_ALLOW_CREDENTIALS"},
	{"cors.max_age", "CORS_MAX_AGE"},

	{"database.type", "DB_TYPE"},
	{"database.url", "DB_URL"},
	{"database.name", "DB_NAME"},
	{"database.connect_timeout", "DB_CONNECT_TIMEOUT"},
	{"database.query_timeout", "DB_QUERY_TIMEOUT"},

	{"auth.bcrypt_cost", "AUTH_BCRYPT_COST"},

	{"eventbus.type", "EVENTBUS_TYPE"},
	{"eventbus.brokers", "EVENTBUS_BROKERS"},
	{"eventbus.topic", "EVENTBUS_TOPIC"},
	{"eventbus.operation_timeout", "EVENTBUS_OPERATION_TIMEOUT"},

	{"rate_limit.enabled", "RATE_LIMIT_ENABLED"},
	{"rate_limit.type", "RATE_LIMIT_TYPE"},
	{"rate_limit.requests_per_second", "RATE_LIMIT_REQUESTS_PER_SECOND"},
	{"rate_limit.burst", "RATE_LIMIT_BURST"},
	{"rate_limit.redis.url", "RATE_LIMIT_REDIS_URL"},
	{"rate_limit.redis.prefix", "RATE_LIMIT_REDIS_PREFIX"},
	{"rate_limit.redis.operation_timeout", "RATE_LIMIT_REDIS_OPERATION_TIMEOUT"},

	{"observability.log_level", "LOG_LEVEL"},
	{"observability.log_format", "LOG_FORMAT"},
	{"observability.tracing_enabled", "TRACING_ENABLED"},
	{"observability.tracing_endpoint", "TRACING_ENDPOINT"},
	{"observability.tracing_sample_rate", "TRACING_SAMPLE_RATE"},
}

// bindEnvVars binds each key explicitly; viper's AutomaticEnv does not see
// nested keys during Unmarshal.
func (l *ViperLoader) bindEnvVars(v *viper.Viper) error {
	for _, b := range envBindings {
		if err := v.BindEnv(b.key, l.prefixedEnv(b.suffix)); err != nil {
			return err
		}
	}
	return nil
}

// EnvName returns the environment variable that overrides key, or "" if key is not bindable.
func (l *ViperLoader) EnvName(key string) string {
	for _, b := range envBindings {
		if b.key == key {
			return l.prefixedEnv(b.suffix)
		}
	}
	return ""
}

func (l *ViperLoader) prefixedEnv(suffix string) string {
	prefix := strings.TrimSpace(l.envPrefix)
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return fmt.Sprintf("%s_%s", strings.ToUpper(prefix), suffix)
}

func (l *ViperLoader) setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("router_type", cfg.RouterType)
	v.SetDefault("service.name", cfg.Service.Name)
	v.SetDefault("service.environment", cfg.Service.Environment)

	v.SetDefault("http.port", cfg.HTTP.Port)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", cfg.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", cfg.HTTP.IdleTimeout)
	v.SetDefault("http.request_timeout", cfg.HTTP.RequestTimeout)

	v.SetDefault("management.enabled", cfg.Management.Enabled)
	v.SetDefault("management.port", cfg.Management.Port)
	v.SetDefault("management.read_timeout", cfg.Management.ReadTimeout)
	v.SetDefault("management.write_timeout", cfg.Management.WriteTimeout)

	v.SetDefault("cors.enabled", cfg.CORS.Enabled)
	v.SetDefault("cors.allow_origins", cfg.CORS.AllowOrigins)
	v.SetDefault("cors.allow_methods", cfg.CORS.AllowMethods)
	v.SetDefault("cors.allow_headers", cfg.CORS.AllowHeaders)
	v.SetDefault("cors.expose_headers", cfg.CORS.ExposeHeaders)
	v.SetDefault("cors.allow_credentials", cfg.CORS.AllowCredentials)
	v.SetDefault("cors.max_age", cfg.CORS.MaxAge)

	v.SetDefault("database.type", cfg.Database.Type)
	v.SetDefault("database.url", cfg.Database.URL)
	v.SetDefault("database.name", cfg.Database.Name)
	v.SetDefault("database.connect_timeout", cfg.Database.ConnectTimeout)
	v.SetDefault("database.query_timeout", cfg.Database.QueryTimeout)

	v.SetDefault("auth.bcrypt_cost", cfg.Auth.BcryptCost)

	v.SetDefault("eventbus.type", cfg.EventBus.Type)
	v.SetDefault("eventbus.brokers", cfg.EventBus.Brokers)
	v.SetDefault("eventbus.topic", cfg.EventBus.Topic)
	v.SetDefault("eventbus.operation_timeout", cfg.EventBus.OperationTimeout)

	v.SetDefault("rate_limit.enabled", cfg.RateLimit.Enabled)
	v.SetDefault("rate_limit.type", cfg.RateLimit.Type)
	v.SetDefault("rate_limit.requests_per_second", cfg.RateLimit.RequestsPerSecond)
	v.SetDefault("rate_limit.burst", cfg.RateLimit.Burst)
	v.SetDefault("rate_limit.redis.url", cfg.RateLimit.Redis.URL)
	v.SetDefault("rate_limit.redis.prefix", cfg.RateLimit.Redis.Prefix)
	v.SetDefault("rate_limit.redis.operation_timeout", cfg.RateLimit.Redis.OperationTimeout)

	v.SetDefault("observability.log_level", cfg.Observability.LogLevel)
	v.SetDefault("observability.log_format", cfg.Observability.LogFormat)
	v.SetDefault("observability.tracing_enabled", cfg.Observability.TracingEnabled)
	v.SetDefault("observability.tracing_endpoint", cfg.Observability.TracingEndpoint)
	v.SetDefault("observability.tracing_sample_rate", cfg.Observability.TracingSampleRate)
}

// Validate normalizes cfg in place and reports every problem found.
func (l *ViperLoader) Validate(cfg *Config) error {
	return cfg.Validate()
}
