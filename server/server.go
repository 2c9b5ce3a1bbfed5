/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package server exposes the rubric pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"chainguard.dev/mcqqc/rubric"
	"chainguard.dev/mcqqc/verdict"
	"github.com/chainguard-dev/clog"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	// GracefulShutdownTimeout bounds how long in-flight requests may take
	// once shutdown starts.
	GracefulShutdownTimeout = 10 * time.Second

	// DefaultProfile serves POST /analyze-question when none is configured.
	DefaultProfile = "general"
)

// Analyzer evaluates questions against a named profile.
type Analyzer interface {
	Run(ctx context.Context, profile string, q *rubric.Question) (verdict.ResultMap, error)
	Profiles() []*rubric.Profile
}

// Config configures the HTTP surface.
type Config struct {
	Port           string
	CORSOrigins    []string
	DefaultProfile string
}

// Server is the echo application serving the analysis routes.
type Server struct {
	Echo *echo.Echo

	cfg      Config
	analyzer Analyzer
}

// New wires the routes and middleware for a.
func New(a Analyzer, cfg Config) *Server {
	if cfg.DefaultProfile == "" {
		cfg.DefaultProfile = DefaultProfile
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler()

	s := &Server{
		Echo:     e,
		cfg:      cfg,
		analyzer: a,
	}
	s.setupMiddlewares()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddlewares() {
	s.Echo.Use(requestID())
	s.Echo.Use(contextLogger())
	s.Echo.Use(requestLogger())
	s.Echo.Use(recoverer())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))
}

func (s *Server) setupRoutes() {
	s.Echo.POST("/analyze-question", s.analyzeDefault)
	s.Echo.POST("/profiles/:profile/analyze-question", s.analyzeProfile)
	s.Echo.GET("/profiles", s.listProfiles)
	s.Echo.GET("/healthz", s.healthz)
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Echo.Start(":" + s.cfg.Port)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	clog.InfoContext(ctx, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), GracefulShutdownTimeout)
	defer cancel()
	return s.Echo.Shutdown(shutdownCtx)
}
