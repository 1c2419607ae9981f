// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/waypost/waypost/internal/discovery"
	"github.com/waypost/waypost/internal/models"
	"github.com/waypost/waypost/internal/store"
)

// newTestServer builds the full router against an in-memory store with a
// small seeded candidate pool.
func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()

	mem := store.NewMemoryStore()
	mem.SetUserPreferences("user-1", models.UserPreferences{
		Likes:      []string{"trip-1"},
		Categories: []string{"beach"},
	})
	mem.SetPools(discovery.Pools{
		Itineraries: []models.Itinerary{
			{
				ID:        "trip-1",
				OwnerID:   "owner-1",
				Title:     "Coastal Escape",
				Type:      "beach",
				StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 7, 8, 0, 0, 0, 0, time.UTC),
				Published: true,
				Likes:     120,
			},
		},
		Deals: []models.Deal{
			{
				ID:        "deal-1",
				Title:     "Island Package",
				Type:      "package",
				Price:     250,
				Discount:  40,
				ExpiresAt: time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		TrendingIDs: []string{"trip-1"},
	})

	engine, err := discovery.NewEngine(discovery.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.SetPoolProvider(mem)

	handlers := NewHandlers(engine, mem, zerolog.Nop(), "test")
	router := NewRouter(handlers, DefaultChiMiddlewareConfig())

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return srv, mem
}

// decodeEnvelope reads an APIResponse with Data decoded into out.
func decodeEnvelope(t *testing.T, resp *http.Response, out interface{}) APIResponse {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *APIError       `json:"error"`
		Meta    *APIMeta        `json:"meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return APIResponse{Success: envelope.Success, Error: envelope.Error, Meta: envelope.Meta}
}

func TestFeedEndpointGet(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/feed?user_id=user-1")
	if err != nil {
		t.Fatalf("GET feed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	var feed discovery.FeedResponse
	envelope := decodeEnvelope(t, resp, &feed)

	if !envelope.Success {
		t.Error("expected success envelope")
	}
	if envelope.Meta == nil || envelope.Meta.RequestID == "" {
		t.Error("expected request ID in meta")
	}
	if feed.TotalCandidates != 2 {
		t.Errorf("TotalCandidates = %d, want 2", feed.TotalCandidates)
	}
	if len(feed.PersonalRecommendations) == 0 {
		t.Fatal("expected personal recommendations")
	}
	if feed.PersonalRecommendations[0].ID != "trip-1" {
		t.Errorf("top item = %s, want trip-1 (liked and trending)", feed.PersonalRecommendations[0].ID)
	}
	if feed.Metadata.UserID != "user-1" {
		t.Errorf("Metadata.UserID = %q", feed.Metadata.UserID)
	}
}

func TestFeedEndpointPost(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	body := `{"user_id":"user-1","filters":{"types":["deal"]}}`
	resp, err := http.Post(srv.URL+"/api/v1/feed", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST feed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var feed discovery.FeedResponse
	decodeEnvelope(t, resp, &feed)

	if feed.TotalCandidates != 1 {
		t.Errorf("TotalCandidates = %d, want 1 after type filter", feed.TotalCandidates)
	}
	for _, item := range feed.PersonalRecommendations {
		if item.Type != discovery.TypeDeal {
			t.Errorf("item %s has type %s, want deal only", item.ID, item.Type)
		}
	}
}

func TestFeedEndpointValidationFailure(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/feed?types=itinerary")
	if err != nil {
		t.Fatalf("GET feed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	envelope := decodeEnvelope(t, resp, nil)
	if envelope.Success {
		t.Error("expected failure envelope")
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v, want code %s", envelope.Error, ErrCodeValidationFailed)
	}
}

func TestFeedEndpointBadFilterConversion(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	body := `{"user_id":"user-1","filters":{"price_range":[100,10]}}`
	resp, err := http.Post(srv.URL+"/api/v1/feed", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST feed: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	envelope := decodeEnvelope(t, resp, nil)
	if envelope.Error == nil || envelope.Error.Code != ErrCodeBadRequest {
		t.Errorf("error = %+v, want code %s", envelope.Error, ErrCodeBadRequest)
	}
}

func TestFeedConfigEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/feed/config")
	if err != nil {
		t.Fatalf("GET feed config: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var cfg discovery.Config
	decodeEnvelope(t, resp, &cfg)
	if cfg.Sections.PersonalSize != 5 {
		t.Errorf("PersonalSize = %d, want 5", cfg.Sections.PersonalSize)
	}
}

func TestFeedCacheInvalidateEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/feed/cache/invalidate", "application/json", nil)
	if err != nil {
		t.Fatalf("POST cache invalidate: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var data map[string]string
	decodeEnvelope(t, resp, &data)
	if data["status"] != "cache invalidated" {
		t.Errorf("status = %q", data["status"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	// Issue a feed request first so the engine counters are non-zero.
	warm, err := http.Get(srv.URL + "/api/v1/feed?user_id=user-1")
	if err != nil {
		t.Fatalf("warm feed: %v", err)
	}
	warm.Body.Close() //nolint:errcheck // test cleanup

	resp, err := http.Get(srv.URL + "/api/v1/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var status statusResponse
	decodeEnvelope(t, resp, &status)
	if status.Version != "test" {
		t.Errorf("Version = %q, want test", status.Version)
	}
	if status.Engine.RequestCount != 1 {
		t.Errorf("RequestCount = %d, want 1", status.Engine.RequestCount)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}

		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, resp.StatusCode)
		}
		resp.Body.Close() //nolint:errcheck // test cleanup
	}
}

// failingPinger simulates an unreachable storage backend.
type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthReadyStoreDown(t *testing.T) {
	t.Parallel()

	engine, err := discovery.NewEngine(discovery.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.SetPoolProvider(store.NewMemoryStore())

	handlers := NewHandlers(engine, failingPinger{}, zerolog.Nop(), "test")

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health/ready", nil)
	handlers.HealthReady(w, r)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}

	var envelope APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Success {
		t.Error("expected failure envelope")
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("error = %+v, want code %s", envelope.Error, ErrCodeServiceUnavailable)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health/live")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := resp.Header.Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	req, err := http.NewRequest("GET", srv.URL+"/api/v1/feed?user_id=user-1", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("X-Request-ID", "req-propagation-test")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	var feed discovery.FeedResponse
	envelope := decodeEnvelope(t, resp, &feed)

	if envelope.Meta.RequestID != "req-propagation-test" {
		t.Errorf("Meta.RequestID = %q, want req-propagation-test", envelope.Meta.RequestID)
	}
	if feed.Metadata.RequestID != "req-propagation-test" {
		t.Errorf("feed Metadata.RequestID = %q, want req-propagation-test", feed.Metadata.RequestID)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/status", "application/json", nil)
	if err != nil {
		t.Fatalf("POST status: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestFeedEndpointPathVariant(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/feed/user-1?types=itinerary")
	if err != nil {
		t.Fatalf("GET feed by path: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var feed discovery.FeedResponse
	decodeEnvelope(t, resp, &feed)

	if feed.Metadata.UserID != "user-1" {
		t.Errorf("Metadata.UserID = %q, want user-1", feed.Metadata.UserID)
	}
	if feed.TotalCandidates != 1 {
		t.Errorf("TotalCandidates = %d, want 1 after type filter", feed.TotalCandidates)
	}
}

func TestFeedConfigUpdateEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	body := `{"sections":{"personal_size":2,"section_size":4,"similar_categories":1,"similar_per_category":2},"cache":{"enabled":false},"seasonal_enabled":false}`
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/feed/config", strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT feed config: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test cleanup

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var cfg discovery.Config
	decodeEnvelope(t, resp, &cfg)
	if cfg.Sections.PersonalSize != 2 {
		t.Errorf("PersonalSize = %d, want 2", cfg.Sections.PersonalSize)
	}

	// The new sizing applies to subsequent feeds.
	feedResp, err := http.Get(srv.URL + "/api/v1/feed?user_id=user-1")
	if err != nil {
		t.Fatalf("GET feed: %v", err)
	}
	defer feedResp.Body.Close() //nolint:errcheck // test cleanup

	var feed discovery.FeedResponse
	decodeEnvelope(t, feedResp, &feed)
	if len(feed.PersonalRecommendations) > 2 {
		t.Errorf("personal section = %d items, want <= 2", len(feed.PersonalRecommendations))
	}
}

func TestFeedConfigUpdateRejectsInvalid(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"sections":`},
		{"unknown field", `{"algorithm":"ease"}`},
		{"zero section size", `{"sections":{"personal_size":5,"section_size":0,"similar_categories":3,"similar_per_category":6},"cache":{"enabled":false},"seasonal_enabled":false}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/feed/config", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("NewRequest: %v", err)
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("PUT feed config: %v", err)
			}
			defer resp.Body.Close() //nolint:errcheck // test cleanup

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}
