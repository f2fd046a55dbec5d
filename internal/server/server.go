// Package server exposes the harvester's status API while watch mode runs:
// health, metrics and the last run's manifest.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parlwatch/hansard/internal/manifest"
)

// Server serves the status endpoints.
type Server struct {
	echo         *echo.Echo
	addr         string
	manifestPath string
	logger       *log.Logger
}

// New builds the server. manifestPath points at the last-run manifest file;
// it may not exist yet.
func New(addr, manifestPath string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		logger.Printf("%d %s %s: %v", code, c.Request().Method, c.Request().URL.Path, err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]any{"error": msg})
		}
	}

	s := &Server{echo: e, addr: addr, manifestPath: manifestPath, logger: logger}

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/api/v1/manifest", s.lastManifest)

	return s
}

func (s *Server) lastManifest(c echo.Context) error {
	m, err := manifest.Read(s.manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return echo.NewHTTPError(http.StatusNotFound, "no run recorded yet")
		}
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Printf("status API listening on %s", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.echo.Shutdown(context.Background())
	}
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler { return s.echo }
