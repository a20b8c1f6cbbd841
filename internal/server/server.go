// Package server provides the bot's HTTP sidecar: the liveness endpoints
// the hosting platform polls and the Prometheus exposition. The Telegram
// traffic itself never passes through here; the bot long-polls outbound.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fernwehlabs/mailscrub/internal/config"
)

// Server represents the HTTP server.
type Server struct {
	echo   *echo.Echo
	logger *zap.Logger
	cfg    config.ServerConfig
}

// HealthResponse is the JSON response for /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// New creates the HTTP server. metricsHandler may be nil, in which case
// no /metrics route is registered.
func New(cfg config.ServerConfig, logger *zap.Logger, metricsHandler http.Handler) (*Server, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	s := &Server{
		echo:   e,
		logger: logger,
		cfg:    cfg,
	}

	e.GET("/", s.handleRoot)
	e.GET("/healthz", s.handleHealth)
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}
	return s, nil
}

// requestLogger logs one line per request through zap.
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	}
}

// handleRoot answers uptime pings with a plain banner.
func (s *Server) handleRoot(c echo.Context) error {
	return c.String(http.StatusOK, "mailscrub bot is running")
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Service: "mailscrub"})
}

// Start starts the HTTP server and blocks until the context is cancelled.
//
// Returns http.ErrServerClosed on graceful shutdown, or any other error
// encountered during startup or shutdown.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", zap.String("addr", addr))
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server start: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			s.cfg.ShutdownTimeout.Duration(),
		)
		defer cancel()

		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return http.ErrServerClosed
	}
}

// Echo returns the underlying Echo instance for registering additional
// routes and for handler tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
