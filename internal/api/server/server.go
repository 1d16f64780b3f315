package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	mw "github.com/DjordjeVuckovic/kernsecbench/pkg/middleware"
	pkgserver "github.com/DjordjeVuckovic/kernsecbench/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	GracefulShutdownTimeout = 10 * time.Second
)

type Server struct {
	Echo *echo.Echo

	cfg      *Config
	hc       pkgserver.HealthChecker
	ctx      context.Context
	stop     context.CancelFunc
	shutdown chan struct{}
}

func New(cfg *Config, hc pkgserver.HealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.DisableHTTP2 = !cfg.UseHttp2

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	return &Server{
		Echo:     e,
		cfg:      cfg,
		hc:       hc,
		ctx:      ctx,
		stop:     stop,
		shutdown: make(chan struct{}),
	}
}

func (s *Server) SetupMiddlewares() *Server {
	s.Echo.Use(mw.Logger())
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.BodyLimit(s.cfg.BodyLimit))
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	return s
}

func (s *Server) SetupErrorHandler() *Server {
	s.Echo.HTTPErrorHandler = apperr.GlobalErrorHandler()
	return s
}

func (s *Server) SetupHealthChecks(path string) *Server {
	s.Echo.GET(path, func(c echo.Context) error {
		if !s.hc.Healthy(c.Request().Context()) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})
	return s
}

// Context is cancelled on interrupt.
func (s *Server) Context() context.Context {
	return s.ctx
}

// ShutdownSignal is closed once graceful shutdown begins.
func (s *Server) ShutdownSignal() <-chan struct{} {
	return s.shutdown
}

func (s *Server) Start() error {
	defer s.stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-s.ctx.Done():
	}
	close(s.shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	return s.Echo.Shutdown(ctx)
}
