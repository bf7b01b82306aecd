package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewViperLoader("", "STOREFRONT_TEST_DEFAULTS").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RouterType != "gin" {
		t.Errorf("router_type = %q, want gin", cfg.RouterType)
	}
	if cfg.HTTP.Port != 8080 || cfg.Management.Port != 8081 {
		t.Errorf("unexpected ports %d/%d", cfg.HTTP.Port, cfg.Management.Port)
	}
	if cfg.Database.Type != DatabaseTypeMongoDB || cfg.Database.Name != "ecommerce" {
		t.Errorf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Database.QueryTimeout != 5*time.Second {
		t.Errorf("query_timeout = %v", cfg.Database.QueryTimeout)
	}
	if cfg.EventBus.Type != EventBusTypeNone {
		t.Errorf("eventbus.type = %q", cfg.EventBus.Type)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storefront.yaml")
	content := `
router_type: gorilla
http:
  port: 9000
database:
  type: memory
  query_timeout: 2s
eventbus:
  type: kafka
  brokers: ["k1:9092"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("STOREFRONT_TEST_HTTP_PORT", "9100")
	t.Setenv("STOREFRONT_TEST_EVENTBUS_BROKERS", "a:9092,b:9092")
	t.Setenv("STOREFRONT_TEST_LOG_LEVEL", "debug")

	cfg, err := NewViperLoader(path, "STOREFRONT_TEST").Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RouterType != "gorilla" {
		t.Errorf("router_type = %q, want gorilla from file", cfg.RouterType)
	}
	if cfg.HTTP.Port != 9100 {
		t.Errorf("http.port = %d, want env override 9100", cfg.HTTP.Port)
	}
	if cfg.Database.Type != DatabaseTypeMemory || cfg.Database.QueryTimeout != 2*time.Second {
		t.Errorf("unexpected database config %+v", cfg.Database)
	}
	if strings.Join(cfg.EventBus.Brokers, ",") != "a:9092,b:9092" {
		t.Errorf("brokers = %v", cfg.EventBus.Brokers)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("log_level = %q", cfg.Observability.LogLevel)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := NewViperLoader(filepath.Join(t.TempDir(), "nope.yaml"), "X").Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"unknown router", func(c *Config) { c.RouterType = "chi" }, "router_type"},
		{"unknown database", func(c *Config) { c.Database.Type = "postgres" }, "database.type"},
		{"mongo without url", func(c *Config) { c.Database.URL = "" }, "database.url"},
		{"memory without url", func(c *Config) { c.Database.Type = DatabaseTypeMemory; c.Database.URL = "" }, ""},
		{"kafka without brokers", func(c *Config) { c.EventBus.Type = EventBusTypeKafka }, "eventbus.brokers"},
		{"redis limiter without url", func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.Type = RateLimitTypeRedis
		}, "rate_limit.redis.url"},
		{"port clash", func(c *Config) { c.Management.Port = c.HTTP.Port }, "management.port"},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 1 }, "auth.bcrypt_cost"},
		{"sample rate out of range", func(c *Config) { c.Observability.TracingSampleRate = 2 }, "tracing_sample_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RouterType = "chi"
	cfg.Database.Type = "sqlite"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"router_type", "database.type"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestRedacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Database.URL = "mongodb://admin:s3cret@db:27017/?authSource=admin"
	cfg.RateLimit.Redis.URL = "redis://:pw@cache:6379/0"

	red := cfg.Redacted()
	if strings.Contains(red.Database.URL, "s3cret") || strings.Contains(red.RateLimit.Redis.URL, "pw@") {
		t.Fatalf("credentials leaked: %q %q", red.Database.URL, red.RateLimit.Redis.URL)
	}
	if !strings.Contains(red.Database.URL, "admin") {
		t.Errorf("username should be kept: %q", red.Database.URL)
	}
	if cfg.Database.URL != "mongodb://admin:s3cret@db:27017/?authSource=admin" {
		t.Error("Redacted must not modify the receiver")
	}
}

func TestEnvName(t *testing.T) {
	l := NewViperLoader("", "")
	if got := l.EnvName("database.url"); got != "STOREFRONT_DB_URL" {
		t.Errorf("EnvName = %q", got)
	}
	if got := l.EnvName("unknown.key"); got != "" {
		t.Errorf("EnvName(unknown) = %q", got)
	}
}
