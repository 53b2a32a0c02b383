// Copyright (C) 2025 the embercheck authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See <https://www.gnu.org/licenses/agpl-3.0.html> for the full license text.

// Package server exposes the lint engine as an HTTP API.
//
// The API lints posted JavaScript source with a fixed rule set, lists the
// active rules, and serves health and Prometheus metrics endpoints.
// Nothing is ever written server-side; fix requests return the rewritten
// source in the response body.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mongoose700/embercheck/lint"
)

// =============================================================================
// Server Options
// =============================================================================

// ServerOptions configures a Server.
type ServerOptions struct {
	// Addr is the listen address.
	// Default: ":8080"
	Addr string

	// Debug enables gin debug mode and request logging.
	// Default: false
	Debug bool

	// Version is reported by the health endpoint.
	// Default: "dev"
	Version string

	// ShutdownTimeout bounds graceful shutdown once the context is
	// canceled.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultServerOptions returns the default server configuration.
func DefaultServerOptions() ServerOptions {
	return ServerOptions{
		Addr:            ":8080",
		Debug:           false,
		Version:         "dev",
		ShutdownTimeout: 10 * time.Second,
	}
}

// ServerOption is a functional option for NewServer.
type ServerOption func(*ServerOptions)

// WithAddr sets the listen address.
func WithAddr(addr string) ServerOption {
	return func(o *ServerOptions) {
		o.Addr = addr
	}
}

// WithDebug enables gin debug mode and request logging.
func WithDebug(debug bool) ServerOption {
	return func(o *ServerOptions) {
		o.Debug = debug
	}
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) ServerOption {
	return func(o *ServerOptions) {
		o.Version = version
	}
}

// WithShutdownTimeout sets the graceful shutdown bound.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(o *ServerOptions) {
		o.ShutdownTimeout = d
	}
}

// =============================================================================
// Server
// =============================================================================

// Server is the assembled lint API server.
//
// Thread Safety: Safe for concurrent use once constructed; Start must be
// called at most once.
type Server struct {
	engine  *gin.Engine
	options ServerOptions
}

// NewServer assembles the API server over the configured rules.
//
// Description:
//
//	Builds the gin engine with recovery, tracing, request ID, and metrics
//	middleware, registers the /v1/lint routes, and exposes Prometheus
//	metrics on /metrics.
func NewServer(rules []lint.ConfiguredRule, opts ...ServerOption) *Server {
	options := DefaultServerOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if options.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware("embercheck"))
	engine.Use(RequestIDMiddleware())
	engine.Use(MetricsMiddleware())
	if options.Debug {
		engine.Use(gin.Logger())
	}

	handlers := NewHandlers(rules, options.Version)
	v1 := engine.Group("/v1")
	RegisterRoutes(v1, handlers)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		engine:  engine,
		options: options,
	}
}

// Engine exposes the underlying router, mainly for httptest.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start serves the API until the context is canceled, then shuts down
// gracefully.
//
// Outputs:
//
//	error - Non-nil if the listener fails or shutdown exceeds its bound.
//	        A canceled context is a normal stop, not an error.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("Start: ctx must not be nil")
	}

	httpServer := &http.Server{
		Addr:              s.options.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	slog.Info("lint server listening",
		slog.String("addr", s.options.Addr),
		slog.String("version", s.options.Version),
	)

	select {
	case <-ctx.Done():
		slog.Info("lint server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("Start: shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("Start: %w", err)
	}
}
