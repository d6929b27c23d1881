// Package ops provides the optional operational HTTP sidecar. The
// protocol itself runs on stdio; this server exists only so an
// orchestrated deployment can probe health and scrape metrics. It is
// disabled by default.
package ops

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/printops/gelato-mcp/internal/platform/config"
	"github.com/printops/gelato-mcp/internal/ports"
)

// BuildInfo contains build-time information about the service.
// These values are typically injected at build time using ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

// NewBuildInfo creates a BuildInfo with the Go version automatically set.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}

// Server wraps http.Server with Gin and provides graceful shutdown.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	registry   *ports.HealthRegistry
	buildInfo  BuildInfo
	logger     *slog.Logger
}

// New creates the sidecar server with its routes registered.
func New(cfg *config.OpsConfig, registry *ports.HealthRegistry, buildInfo BuildInfo, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		registry:  registry,
		buildInfo: buildInfo,
		logger:    logger.With(slog.String("component", "ops.Server")),
	}

	internal := engine.Group("/-")
	internal.GET("/live", s.liveness)
	internal.GET("/ready", s.readiness)
	internal.GET("/build", s.build)
	internal.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Engine returns the underlying Gin engine, for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start begins listening and serving. Returns a channel that receives
// any ListenAndServe error. Non-blocking.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting ops server", slog.String("addr", s.httpServer.Addr))

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("ops server error: %w", err)
		}

		close(errCh)
	}()

	return errCh
}

// Shutdown gracefully stops the server, waiting for active connections
// to finish. The provided context controls the shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down ops server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ops server shutdown: %w", err)
	}

	return nil
}

type livenessResponse struct {
	Status string `json:"status"`
}

// liveness reports only that the process is running; dependency state
// belongs to readiness.
func (s *Server) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, livenessResponse{Status: "ok"})
}

type readinessResponse struct {
	Status string                        `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

func (s *Server) readiness(c *gin.Context) {
	result := s.registry.CheckAll(c.Request.Context())

	status := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, readinessResponse{
		Status: string(result.Status),
		Checks: result.Checks,
	})
}

func (s *Server) build(c *gin.Context) {
	c.JSON(http.StatusOK, s.buildInfo)
}
