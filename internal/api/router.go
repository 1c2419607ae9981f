// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/waypost/waypost/internal/middleware"
)

// Router wires handlers and middleware into the service's HTTP handler.
type Router struct {
	handlers      *Handlers
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router from the handler set and middleware config.
func NewRouter(handlers *Handlers, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handlers:      handlers,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// Health endpoints: permissive limits for monitoring probes.
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handlers.Health)
		r.Get("/live", router.handlers.HealthLive)
		r.Get("/ready", router.handlers.HealthReady)
	})

	// Feed endpoints: the read-heavy core surface.
	r.Route("/api/v1/feed", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitFeed())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", router.handlers.Feed)
		r.Post("/", router.handlers.Feed)
		r.Get("/config", router.handlers.FeedConfig)
		r.Get("/metrics", router.handlers.FeedMetrics)
		r.Get("/{userID}", router.handlers.Feed)

		r.With(router.chiMiddleware.RateLimitAdmin()).
			Put("/config", router.handlers.FeedConfigUpdate)
		r.With(router.chiMiddleware.RateLimitAdmin()).
			Post("/cache/invalidate", router.handlers.FeedCacheInvalidate)
	})

	// Service status.
	r.Route("/api/v1/status", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/", router.handlers.Status)
	})

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
