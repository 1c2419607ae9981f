// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

// Package store provides the PoolProvider implementations backing the
// discovery engine: a Postgres store for production and an in-memory
// store for development and tests.
package store

import (
	"context"
	"sync"

	"github.com/waypost/waypost/internal/discovery"
	"github.com/waypost/waypost/internal/models"
)

// MemoryStore is an in-memory PoolProvider. It serves the service in
// development mode (database disabled) and doubles as a test fixture.
// Safe for concurrent use.
type MemoryStore struct {
	mu sync.RWMutex

	preferences map[string]models.UserPreferences
	social      map[string]models.SocialGraph
	pools       discovery.Pools
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		preferences: make(map[string]models.UserPreferences),
		social:      make(map[string]models.SocialGraph),
	}
}

// SetUserPreferences replaces the preference snapshot for a user.
func (s *MemoryStore) SetUserPreferences(userID string, prefs models.UserPreferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences[userID] = prefs
}

// SetSocialGraph replaces the social snapshot for a user.
func (s *MemoryStore) SetSocialGraph(userID string, graph models.SocialGraph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.social[userID] = graph
}

// SetPools replaces the candidate pools.
func (s *MemoryStore) SetPools(pools discovery.Pools) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools = pools
}

// GetUserPreferences returns the user's preference snapshot. Unknown
// users get an empty snapshot, not an error: a brand-new user still
// receives a (fallback-driven) feed.
func (s *MemoryStore) GetUserPreferences(_ context.Context, userID string) (models.UserPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preferences[userID], nil
}

// GetSocialGraph returns the user's social snapshot.
func (s *MemoryStore) GetSocialGraph(_ context.Context, userID string) (models.SocialGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.social[userID], nil
}

// GetCandidatePools returns the current candidate pools.
func (s *MemoryStore) GetCandidatePools(_ context.Context) (discovery.Pools, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pools, nil
}

// Ping always succeeds; it satisfies the health check interface.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op; it satisfies the lifecycle interface.
func (s *MemoryStore) Close() error {
	return nil
}
