package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	validRouterTypes    = []string{"gin", "gorilla"}
	validDatabaseTypes  = []string{DatabaseTypeMongoDB, DatabaseTypeMemory}
	validEventBusTypes  = []string{EventBusTypeNone, EventBusTypeKafka}
	validRateLimitTypes = []string{RateLimitTypeLocal, RateLimitTypeRedis}
)

// Validate normalizes enum-like fields and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	c.RouterType = strings.ToLower(strings.TrimSpace(c.RouterType))
	c.Database.Type = strings.ToLower(strings.TrimSpace(c.Database.Type))
	c.EventBus.Type = strings.ToLower(strings.TrimSpace(c.EventBus.Type))
	c.RateLimit.Type = strings.ToLower(strings.TrimSpace(c.RateLimit.Type))
	c.CORS.AllowOrigins = normalizeStringSlice(c.CORS.AllowOrigins)
	c.EventBus.Brokers = normalizeStringSlice(c.EventBus.Brokers)
	if c.EventBus.Type == "" {
		c.EventBus.Type = EventBusTypeNone
	}

	if !slices.Contains(validRouterTypes, c.RouterType) {
		errs = append(errs, fmt.Errorf("invalid router_type: %q (must be one of: %v)", c.RouterType, validRouterTypes))
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	if c.Management.Enabled {
		if c.Management.Port <= 0 || c.Management.Port > 65535 {
			errs = append(errs, fmt.Errorf("management.port must be between 1 and 65535, got %d", c.Management.Port))
		}
		if c.Management.Port == c.HTTP.Port {
			errs = append(errs, errors.New("management.port must differ from http.port"))
		}
	}
	if c.HTTP.RequestTimeout < 0 {
		errs = append(errs, errors.New("http.request_timeout must not be negative"))
	}

	if !slices.Contains(validDatabaseTypes, c.Database.Type) {
		errs = append(errs, fmt.Errorf("invalid database.type: %q (must be one of: %v)", c.Database.Type, validDatabaseTypes))
	}
	if c.Database.Type == DatabaseTypeMongoDB {
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url is required for MongoDB"))
		}
		if c.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required for MongoDB"))
		}
	}
	if c.Database.QueryTimeout <= 0 {
		errs = append(errs, errors.New("database.query_timeout must be positive"))
	}

	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	if !slices.Contains(validEventBusTypes, c.EventBus.Type) {
		errs = append(errs, fmt.Errorf("invalid eventbus.type: %q (must be one of: %v)", c.EventBus.Type, validEventBusTypes))
	}
	if c.EventBus.Type == EventBusTypeKafka {
		if len(c.EventBus.Brokers) == 0 {
			errs = append(errs, errors.New("eventbus.brokers is required for Kafka"))
		}
		if strings.TrimSpace(c.EventBus.Topic) == "" {
			errs = append(errs, errors.New("eventbus.topic is required for Kafka"))
		}
	}

	if c.RateLimit.Enabled {
		if !slices.Contains(validRateLimitTypes, c.RateLimit.Type) {
			errs = append(errs, fmt.Errorf("invalid rate_limit.type: %q (must be one of: %v)", c.RateLimit.Type, validRateLimitTypes))
		}
		if c.RateLimit.RequestsPerSecond <= 0 {
			errs = append(errs, errors.New("rate_limit.requests_per_second must be positive"))
		}
		if c.RateLimit.Burst <= 0 {
			errs = append(errs, errors.New("rate_limit.burst must be positive"))
		}
		if c.RateLimit.Type == RateLimitTypeRedis && c.RateLimit.Redis.URL == "" {
			errs = append(errs, errors.New("rate_limit.redis.url is required when rate_limit.type is redis"))
		}
	}

	if c.Observability.TracingSampleRate < 0 || c.Observability.TracingSampleRate > 1 {
		errs = append(errs, errors.New("observability.tracing_sample_rate must be between 0 and 1"))
	}

	return errors.Join(errs...)
}

// Redacted returns a copy of the configuration with credentials in URLs masked.
func (c *Config) Redacted() *Config {
	out := *c
	out.CORS.AllowOrigins = slices.Clone(c.CORS.AllowOrigins)
	out.CORS.AllowMethods = slices.Clone(c.CORS.AllowMethods)
	out.CORS.AllowHeaders = slices.Clone(c.CORS.AllowHeaders)
	out.CORS.ExposeHeaders = slices.Clone(c.CORS.ExposeHeaders)
	out.EventBus.Brokers = slices.Clone(c.EventBus.Brokers)
	out.Database.URL = redactURL(c.Database.URL)
	out.RateLimit.Redis.URL = redactURL(c.RateLimit.Redis.URL)
	return &out
}

func redactURL(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

func normalizeStringSlice(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
