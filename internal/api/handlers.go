// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/waypost/waypost/internal/discovery"
	"github.com/waypost/waypost/internal/logging"
	"github.com/waypost/waypost/internal/metrics"
)

// Pinger is the slice of the storage layer the handlers need for
// readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	engine  *discovery.Engine
	store   Pinger
	logger  zerolog.Logger
	version string

	startTime time.Time
}

// NewHandlers creates the handler set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandlers(engine *discovery.Engine, store Pinger, logger zerolog.Logger, version string) *Handlers {
	return &Handlers{
		engine:    engine,
		store:     store,
		logger:    logger.With().Str("component", "api").Logger(),
		version:   version,
		startTime: time.Now(),
	}
}

// Feed handles GET and POST /api/v1/feed: it assembles the discovery feed
// for the requested user.
func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	start := time.Now()

	req, err := decodeFeedRequest(r)
	if err != nil {
		rw.ValidationError("invalid feed request", formatValidationErrors(err))
		return
	}

	filters, err := req.Filters.ToDiscovery()
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	resp, err := h.engine.BuildFeed(r.Context(), discovery.Request{
		UserID:    req.UserID,
		Filters:   filters,
		RequestID: logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("user_id", req.UserID).Msg("feed assembly failed")
		rw.StorageError(err)
		return
	}

	metrics.RecordFeedAssembly(time.Since(start), resp.TotalCandidates, resp.Metadata.CacheHit)
	rw.Success(resp)
}

// FeedConfig handles GET /api/v1/feed/config: the engine configuration.
func (h *Handlers) FeedConfig(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.engine.Config())
}

// FeedConfigUpdate handles PUT /api/v1/feed/config: replaces the engine
// configuration at runtime.
func (h *Handlers) FeedConfigUpdate(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	cfg, err := decodeEngineConfig(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	if err := h.engine.UpdateConfig(cfg); err != nil {
		rw.BadRequest(err.Error())
		return
	}

	h.logger.Info().Msg("engine configuration updated via API")
	rw.Success(h.engine.Config())
}

// FeedMetrics handles GET /api/v1/feed/metrics: the engine counters.
func (h *Handlers) FeedMetrics(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, h.engine.Metrics())
}

// FeedCacheInvalidate handles POST /api/v1/feed/cache/invalidate: drops
// all cached feeds so upstream content changes surface immediately.
func (h *Handlers) FeedCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	h.engine.InvalidateCache()
	h.logger.Info().Msg("feed cache invalidated via API")

	WriteSuccess(w, r, map[string]string{"status": "cache invalidated"})
}

// statusResponse is the payload for the status endpoint.
type statusResponse struct {
	Version       string            `json:"version"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Engine        discovery.Metrics `json:"engine"`
	Timestamp     time.Time         `json:"timestamp"`
}

// Status handles GET /api/v1/status: service version, uptime, and engine counters.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, statusResponse{
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Engine:        h.engine.Metrics(),
		Timestamp:     time.Now(),
	})
}
