// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package api

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout bounds the readiness probe's storage ping.
const healthCheckTimeout = 5 * time.Second

// healthResponse is the payload for the health endpoints.
type healthResponse struct {
	Status string `json:"status"`

	// Checks maps each dependency to "ok" or its failure message.
	Checks map[string]string `json:"checks,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// HealthLive handles GET /health/live: the process is up and serving.
func (h *Handlers) HealthLive(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, healthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// HealthReady handles GET /health/ready: the service can serve feeds,
// which requires the storage layer to be reachable.
func (h *Handlers) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	status := "ok"

	if err := h.store.Ping(ctx); err != nil {
		checks["store"] = err.Error()
		status = "unavailable"
		h.logger.Warn().Err(err).Msg("readiness check failed")
	} else {
		checks["store"] = "ok"
	}

	resp := healthResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now(),
	}

	if status != "ok" {
		NewResponseWriter(w, r).ErrorWithDetails(
			http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "service not ready", resp)
		return
	}
	WriteSuccess(w, r, resp)
}

// Health handles GET /health: an alias for readiness used by container
// orchestrators with a single probe.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.HealthReady(w, r)
}
