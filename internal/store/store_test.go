// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/waypost/waypost/internal/discovery"
	"github.com/waypost/waypost/internal/models"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	prefs := models.UserPreferences{Likes: []string{"trip-1"}, Categories: []string{"trip"}}
	graph := models.SocialGraph{Following: []string{"user-9"}}
	pools := discovery.Pools{TrendingIDs: []string{"trip-1"}}

	s.SetUserPreferences("user-1", prefs)
	s.SetSocialGraph("user-1", graph)
	s.SetPools(pools)

	gotPrefs, err := s.GetUserPreferences(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUserPreferences failed: %v", err)
	}
	if len(gotPrefs.Likes) != 1 || gotPrefs.Likes[0] != "trip-1" {
		t.Errorf("preferences = %+v, want likes [trip-1]", gotPrefs)
	}

	gotGraph, err := s.GetSocialGraph(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSocialGraph failed: %v", err)
	}
	if len(gotGraph.Following) != 1 {
		t.Errorf("social graph = %+v, want one followee", gotGraph)
	}

	gotPools, err := s.GetCandidatePools(ctx)
	if err != nil {
		t.Fatalf("GetCandidatePools failed: %v", err)
	}
	if len(gotPools.TrendingIDs) != 1 {
		t.Errorf("pools = %+v, want one trending ID", gotPools)
	}
}

func TestMemoryStoreUnknownUser(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()

	prefs, err := s.GetUserPreferences(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unknown user should not error, got %v", err)
	}
	if len(prefs.Likes) != 0 || len(prefs.Searches) != 0 {
		t.Errorf("unknown user should get an empty snapshot, got %+v", prefs)
	}
}

func TestAppendInteraction(t *testing.T) {
	t.Parallel()

	var prefs models.UserPreferences

	appendInteraction(&prefs, "trip-1", "like", "trip")
	appendInteraction(&prefs, "deal-1", "search", "hotel")
	appendInteraction(&prefs, "dest-1", "view", "")
	appendInteraction(&prefs, "trip-2", "like", "trip")
	appendInteraction(&prefs, "x", "bookmark", "city") // unknown kind: category still counts

	if len(prefs.Likes) != 2 {
		t.Errorf("likes = %v, want 2 entries", prefs.Likes)
	}
	if len(prefs.Searches) != 1 || prefs.Searches[0] != "deal-1" {
		t.Errorf("searches = %v, want [deal-1]", prefs.Searches)
	}
	if len(prefs.Views) != 1 {
		t.Errorf("views = %v, want 1 entry", prefs.Views)
	}
	if len(prefs.Categories) != 4 {
		t.Errorf("categories = %v, want 4 entries (frequency encodes affinity)", prefs.Categories)
	}
}

func TestCoordinates(t *testing.T) {
	t.Parallel()

	if c := coordinates(sql.NullFloat64{}, sql.NullFloat64{}); c != nil {
		t.Errorf("null columns should produce nil coordinates, got %+v", c)
	}
	if c := coordinates(sql.NullFloat64{Valid: true, Float64: 48.85}, sql.NullFloat64{}); c != nil {
		t.Errorf("half-null columns should produce nil coordinates, got %+v", c)
	}

	c := coordinates(
		sql.NullFloat64{Valid: true, Float64: 48.85},
		sql.NullFloat64{Valid: true, Float64: 2.35},
	)
	if c == nil || c.Latitude != 48.85 || c.Longitude != 2.35 {
		t.Errorf("coordinates = %+v, want {48.85 2.35}", c)
	}
}
