// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package discovery

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/waypost/waypost/internal/models"
)

// Note: This package depends only on the models package. The PoolProvider
// interface allows integration with the storage layer without creating
// circular imports.

// PoolProvider defines the interface for fetching the request-scoped
// snapshots the feed is assembled from. Implemented by the storage layer.
type PoolProvider interface {
	// GetUserPreferences returns the user's interaction history snapshot.
	GetUserPreferences(ctx context.Context, userID string) (models.UserPreferences, error)

	// GetSocialGraph returns the user's social snapshot.
	GetSocialGraph(ctx context.Context, userID string) (models.SocialGraph, error)

	// GetCandidatePools returns the candidate pools plus the trending set.
	// Only feed-eligible records are returned (published itineraries,
	// unexpired deals, running promotions).
	GetCandidatePools(ctx context.Context) (Pools, error)
}

// Engine coordinates snapshot fetching, feed assembly, and caching.
// It is safe for concurrent use.
type Engine struct {
	config    *Config
	logger    zerolog.Logger
	assembler *Assembler

	provider PoolProvider

	// Cache (simple in-memory TTL map)
	cache   map[string]cacheEntry
	cacheMu sync.RWMutex

	// Metrics
	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
}

// cacheEntry holds a cached feed response.
type cacheEntry struct {
	response  *FeedResponse
	expiresAt time.Time
}

// NewEngine creates a discovery engine. A nil cfg uses DefaultConfig.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "discovery").Logger(),
		assembler: NewAssembler(cfg),
		cache:     make(map[string]cacheEntry),
	}, nil
}

// SetPoolProvider sets the provider the engine fetches snapshots from.
func (e *Engine) SetPoolProvider(p PoolProvider) {
	e.provider = p
}

// BuildFeed assembles the discovery feed for one request.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) BuildFeed(ctx context.Context, req Request) (*FeedResponse, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing feed request")

	if resp := e.tryGetCachedResponse(req, start, logger); resp != nil {
		return resp, nil
	}

	if e.provider == nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("pool provider not set")
	}

	prefs, social, pools, err := e.fetchSnapshots(ctx, req.UserID)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	resp := e.assembler.Assemble(prefs, social, pools, req.Filters)
	resp.Metadata = ResponseMetadata{
		RequestID: req.RequestID,
		UserID:    req.UserID,
		LatencyMS: time.Since(start).Milliseconds(),
		Timestamp: time.Now(),
	}

	e.cacheResponse(req, resp)

	logger.Debug().
		Int("candidates", resp.TotalCandidates).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("feed assembly complete")

	return resp, nil
}

// prepareRequest generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	return req
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Logger()
}

// fetchSnapshots loads all request-scoped inputs from the provider.
func (e *Engine) fetchSnapshots(ctx context.Context, userID string) (models.UserPreferences, models.SocialGraph, Pools, error) {
	prefs, err := e.provider.GetUserPreferences(ctx, userID)
	if err != nil {
		return models.UserPreferences{}, models.SocialGraph{}, Pools{}, fmt.Errorf("get user preferences: %w", err)
	}

	social, err := e.provider.GetSocialGraph(ctx, userID)
	if err != nil {
		return models.UserPreferences{}, models.SocialGraph{}, Pools{}, fmt.Errorf("get social graph: %w", err)
	}

	pools, err := e.provider.GetCandidatePools(ctx)
	if err != nil {
		return models.UserPreferences{}, models.SocialGraph{}, Pools{}, fmt.Errorf("get candidate pools: %w", err)
	}

	return prefs, social, pools, nil
}

// tryGetCachedResponse attempts to retrieve a cached response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetCachedResponse(req Request, start time.Time, logger zerolog.Logger) *FeedResponse {
	if !e.config.Cache.Enabled {
		return nil
	}

	resp := e.checkCache(e.cacheKey(req))
	if resp == nil {
		e.cacheMisses.Add(1)
		return nil
	}

	e.cacheHits.Add(1)
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	logger.Debug().Msg("cache hit")
	return resp
}

// cacheKey derives the cache key from the user and filter fingerprint.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) cacheKey(req Request) string {
	if req.Filters == nil {
		return req.UserID
	}

	fingerprint, err := json.Marshal(req.Filters)
	if err != nil {
		// Filters are plain data; marshal cannot realistically fail.
		return req.UserID
	}
	return req.UserID + ":" + string(fingerprint)
}

// checkCache returns a copy of the cached response for key, or nil on
// miss or expiry.
func (e *Engine) checkCache(key string) *FeedResponse {
	e.cacheMu.RLock()
	entry, ok := e.cache[key]
	e.cacheMu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}

	// Shallow copy so callers can stamp metadata without racing.
	resp := *entry.response
	return &resp
}

// cacheResponse stores the response if caching is enabled.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) cacheResponse(req Request, resp *FeedResponse) {
	if !e.config.Cache.Enabled {
		return
	}

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if len(e.cache) >= e.config.Cache.MaxEntries {
		e.evictLocked()
	}

	e.cache[e.cacheKey(req)] = cacheEntry{
		response:  resp,
		expiresAt: time.Now().Add(e.config.Cache.TTL),
	}
}

// evictLocked drops expired entries, then one arbitrary entry if the
// cache is still full. Callers must hold cacheMu.
func (e *Engine) evictLocked() {
	now := time.Now()
	for key, entry := range e.cache {
		if now.After(entry.expiresAt) {
			delete(e.cache, key)
		}
	}

	if len(e.cache) >= e.config.Cache.MaxEntries {
		for key := range e.cache {
			delete(e.cache, key)
			break
		}
	}
}

// InvalidateCache drops all cached feeds. Called when upstream pools change.
func (e *Engine) InvalidateCache() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	e.cache = make(map[string]cacheEntry)

	e.logger.Debug().Msg("feed cache invalidated")
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// UpdateConfig replaces the engine configuration. Cached feeds are dropped
// since section sizing may have changed.
func (e *Engine) UpdateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	e.config = cfg
	e.assembler = NewAssembler(cfg)
	e.InvalidateCache()
	e.logger.Info().Msg("configuration updated")

	return nil
}

// Metrics returns a snapshot of the engine counters.
func (e *Engine) Metrics() Metrics {
	return Metrics{
		RequestCount: e.requestCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		ErrorCount:   e.errorCount.Load(),
	}
}
