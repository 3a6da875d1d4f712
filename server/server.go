// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes the engine over a JSON HTTP API built on echo.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/toriana04/fraudintel"
	"github.com/toriana04/fraudintel/core"
	"github.com/toriana04/fraudintel/insight"
)

// DefaultSessionTTL is how long an idle session keeps its history.
const DefaultSessionTTL = 24 * time.Hour

// Server serves the fraudintel API.
type Server struct {
	echo       *echo.Echo
	engine     *fraudintel.Engine
	sessionTTL time.Duration
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSessionTTL sets how long idle sessions are kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// New builds a server and registers every route.
func New(engine *fraudintel.Engine, opts ...Option) *Server {
	s := &Server{
		echo:       echo.New(),
		engine:     engine,
		sessionTTL: DefaultSessionTTL,
		logger:     slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.HTTPErrorHandler = s.handleError
	s.echo.Use(s.requestLogger)
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.GET("/healthz", s.health)

	api := e.Group("/api", s.session)
	api.GET("/search", s.search)
	api.GET("/suggest", s.suggest)
	api.GET("/articles", s.articles)
	api.GET("/categories", s.categories)
	api.POST("/classify", s.classify)
	api.GET("/trends", s.trends)
	api.GET("/keywords", s.keywords)
	api.GET("/history", s.history)
	api.DELETE("/history", s.clearHistory)
	api.POST("/compare", s.compare)
	api.POST("/explain", s.explain)
	api.POST("/ask", s.ask)
	api.GET("/insight/:index", s.insight)
	api.GET("/glossary/:term", s.glossary)
	api.GET("/export.csv", s.exportCSV)
	api.GET("/export.xlsx", s.exportXLSX)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.expireSessions(ctx)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- s.echo.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) expireSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.engine.Sessions().Expire(s.sessionTTL); n > 0 {
				s.logger.Debug("expired sessions", "count", n)
			}
		}
	}
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		s.logger.Debug("request",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"duration", time.Since(start),
		)
		return nil
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, core.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, fraudintel.ErrInsightUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, insight.ErrEmptyInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := statusOf(err)
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(he.Code)
		}
	}
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		s.logger.Error("request failed", "path", c.Path(), "err", err)
	}
	if err := c.JSON(status, errorResponse{Error: msg}); err != nil {
		s.logger.Error("failed to write error response", "err", err)
	}
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
