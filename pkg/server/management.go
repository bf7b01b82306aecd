package server

import (
	"net/http"
	"time"

	"github.com/nimburion/storefront/pkg/config"
	"github.com/nimburion/storefront/pkg/health"
	"github.com/nimburion/storefront/pkg/middleware/logging"
	"github.com/nimburion/storefront/pkg/middleware/recovery"
	"github.com/nimburion/storefront/pkg/middleware/requestid"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/observability/metrics"
	"github.com/nimburion/storefront/pkg/server/router"
	"github.com/nimburion/storefront/pkg/version"
)

// ManagementServer serves operational endpoints on a separate port:
//   - /health: liveness, always 200
//   - /ready: readiness, 503 while any critical dependency is unhealthy
//   - /metrics: Prometheus exposition
//   - /version: build metadata
type ManagementServer struct {
	*Server
	healthRegistry  *health.Registry
	metricsRegistry *metrics.Registry
	versionInfo     version.Info
}

// NewManagementServer applies the management middleware stack to r and registers its endpoints.
func NewManagementServer(
	cfg config.ManagementConfig,
	r router.Router,
	log logger.Logger,
	healthRegistry *health.Registry,
	metricsRegistry *metrics.Registry,
	info version.Info,
) *ManagementServer {
	r.Use(
		requestid.RequestID(),
		logging.WithConfig(log, logging.Config{ExcludedPathPrefixes: []string{"/health", "/metrics"}}),
		recovery.Recovery(log),
	)

	s := &ManagementServer{
		Server: NewServer(Config{
			Port:         cfg.Port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		}, r, log),
		healthRegistry:  healthRegistry,
		metricsRegistry: metricsRegistry,
		versionInfo:     info,
	}

	r.GET("/health", s.handleHealth)
	r.GET("/ready", s.handleReady)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/version", s.handleVersion)
	return s
}

func (s *ManagementServer) handleHealth(c router.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *ManagementServer) handleReady(c router.Context) error {
	result := s.healthRegistry.Check(c.Request().Context())
	if !result.IsHealthy() {
		return c.JSON(http.StatusServiceUnavailable, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *ManagementServer) handleMetrics(c router.Context) error {
	s.metricsRegistry.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}

func (s *ManagementServer) handleVersion(c router.Context) error {
	return c.JSON(http.StatusOK, s.versionInfo)
}
