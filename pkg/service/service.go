// Package service assembles the storefront from its configuration.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimburion/storefront/pkg/auth"
	"github.com/nimburion/storefront/pkg/commerce"
	"github.com/nimburion/storefront/pkg/commerce/api"
	"github.com/nimburion/storefront/pkg/config"
	"github.com/nimburion/storefront/pkg/eventbus"
	"github.com/nimburion/storefront/pkg/eventbus/kafka"
	"github.com/nimburion/storefront/pkg/health"
	"github.com/nimburion/storefront/pkg/middleware/ratelimit"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/observability/metrics"
	"github.com/nimburion/storefront/pkg/repository/document"
	"github.com/nimburion/storefront/pkg/server"
	mongostore "github.com/nimburion/storefront/pkg/store/mongodb"
)

// Service owns every long-lived dependency of a running storefront.
type Service struct {
	cfg *config.Config
	log logger.Logger

	executor document.Executor
	repos    *commerce.Repositories

	health  *health.Registry
	metrics *metrics.Registry
	limiter ratelimit.RateLimiter

	// closers run in reverse order of acquisition.
	closers []closer
}

type closer struct {
	name string
	fn   func() error
}

// New connects the store and the optional event bus and rate limiter backends
// and builds the repositories. On error everything acquired so far is released.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (s *Service, err error) {
	s = &Service{
		cfg:     cfg,
		log:     log,
		health:  health.NewRegistry(),
		metrics: metrics.NewRegistry(),
	}
	defer func() {
		if err != nil {
			if closeErr := s.Close(); closeErr != nil {
				log.Error("failed to release partially built service", "error", closeErr)
			}
			s = nil
		}
	}()

	if err := s.openStore(); err != nil {
		return s, err
	}

	producer, err := s.openEventBus()
	if err != nil {
		return s, err
	}

	if err := s.openRateLimiter(); err != nil {
		return s, err
	}

	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return s, fmt.Errorf("create password hasher: %w", err)
	}

	events := commerce.NewOrderEvents(producer, cfg.EventBus.Topic, log)
	s.repos = commerce.NewRepositories(s.executor, hasher, events, log)
	if err := s.repos.EnsureIndexes(ctx); err != nil {
		return s, fmt.Errorf("ensure indexes: %w", err)
	}
	return s, nil
}

func (s *Service) openStore() error {
	switch s.cfg.Database.Type {
	case config.DatabaseTypeMemory:
		s.log.Warn("using in-memory document store; data is lost on exit")
		s.executor = document.NewInstrumentedExecutor(document.NewMemoryExecutor(), "memory")
		s.health.Register(health.NewPingChecker("store"))
		return nil
	case config.DatabaseTypeMongoDB:
		adapter, err := mongostore.NewAdapter(mongostore.Config{
			URL:              s.cfg.Database.URL,
			Database:         s.cfg.Database.Name,
			ConnectTimeout:   s.cfg.Database.ConnectTimeout,
			OperationTimeout: s.cfg.Database.QueryTimeout,
		}, s.log)
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		s.addCloser("mongodb", adapter.Close)

		exec, err := document.NewMongoDBExecutor(adapter)
		if err != nil {
			return err
		}
		s.executor = document.NewInstrumentedExecutor(exec, "mongodb")
		s.health.Register(health.NewAdapterChecker("mongodb", adapter, s.cfg.Database.QueryTimeout))
		return nil
	default:
		return fmt.Errorf("unsupported database type %q", s.cfg.Database.Type)
	}
}

func (s *Service) openEventBus() (eventbus.Producer, error) {
	if s.cfg.EventBus.Type != config.EventBusTypeKafka {
		return eventbus.NopProducer{}, nil
	}
	producer, err := kafka.NewProducer(kafka.Config{
		Brokers:          s.cfg.EventBus.Brokers,
		OperationTimeout: s.cfg.EventBus.OperationTimeout,
	}, s.log)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	s.addCloser("kafka", producer.Close)
	// Events are best effort, so a broker outage only degrades readiness.
	s.health.Register(health.NewOptionalChecker("kafka", producer, s.cfg.EventBus.OperationTimeout))
	return producer, nil
}

func (s *Service) openRateLimiter() error {
	rl := s.cfg.RateLimit
	if !rl.Enabled || rl.Type != config.RateLimitTypeRedis {
		return nil
	}
	limiter, err := ratelimit.NewRedisRateLimiter(rl.Redis, rl.RequestsPerSecond, rl.Burst, s.log)
	if err != nil {
		return fmt.Errorf("create redis rate limiter: %w", err)
	}
	s.addCloser("redis", limiter.Close)
	s.health.Register(health.NewOptionalChecker("redis", health.CheckFunc(limiter.Ping), rl.Redis.OperationTimeout))
	s.limiter = limiter
	return nil
}

func (s *Service) addCloser(name string, fn func() error) {
	s.closers = append(s.closers, closer{name: name, fn: fn})
}

// Repositories exposes the domain repositories, e.g. for CLI commands.
func (s *Service) Repositories() *commerce.Repositories {
	return s.repos
}

// Health returns the readiness registry.
func (s *Service) Health() *health.Registry {
	return s.health
}

// Check runs every registered readiness check once.
func (s *Service) Check(ctx context.Context) error {
	result := s.health.Check(ctx)
	if result.IsHealthy() {
		return nil
	}
	var errs []error
	for _, check := range result.Checks {
		if check.Status == health.StatusUnhealthy {
			errs = append(errs, fmt.Errorf("%s: %s", check.Name, check.Error))
		}
	}
	return errors.Join(errs...)
}

// BuildServers registers the API on a fresh public router and builds the
// public and management servers.
func (s *Service) BuildServers() (*server.HTTPServers, *server.RunHTTPServersOptions, error) {
	opts := &server.RunHTTPServersOptions{
		Config:          s.cfg,
		Logger:          s.log,
		HealthRegistry:  s.health,
		MetricsRegistry: s.metrics,
		RateLimiter:     s.limiter,
	}
	servers, err := server.BuildHTTPServers(opts)
	if err != nil {
		return nil, nil, err
	}
	api.NewHandler(s.repos, s.log).RegisterRoutes(servers.Public.Router())
	return servers, opts, nil
}

// Run serves HTTP until ctx is cancelled, then drains the servers and
// releases the store, broker and limiter connections.
func (s *Service) Run(ctx context.Context) error {
	servers, opts, err := s.BuildServers()
	if err != nil {
		return err
	}
	opts.ShutdownHooks = append(opts.ShutdownHooks, server.LifecycleHook{
		Name: "release-dependencies",
		Fn:   func(context.Context) error { return s.Close() },
	})
	return server.RunHTTPServers(ctx, servers, opts)
}

// Close releases dependencies in reverse acquisition order. It is safe to call twice.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		if err := c.fn(); err != nil {
			s.log.Error("failed to close dependency", "dependency", c.name, "error", err)
			errs = append(errs, fmt.Errorf("close %s: %w", c.name, err))
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
