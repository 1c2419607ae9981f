// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/lib/pq" // postgres driver
	"github.com/rs/zerolog"

	"github.com/waypost/waypost/internal/discovery"
	"github.com/waypost/waypost/internal/metrics"
	"github.com/waypost/waypost/internal/models"
)

// PostgresConfig holds connection pool settings for the Postgres store.
type PostgresConfig struct {
	// URL is the Postgres connection string.
	URL string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresStore is the production PoolProvider reading the platform
// database. All queries are read-only snapshots; the feed never writes.
type PostgresStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewPostgresStore opens a connection pool and verifies connectivity.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPostgresStore(ctx context.Context, cfg PostgresConfig, logger zerolog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{
		db:     db,
		logger: logger.With().Str("component", "store").Logger(),
	}, nil
}

// Ping verifies database connectivity for health checks.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// GetUserPreferences assembles the interaction history snapshot from the
// interaction log and the user's last shared position.
func (s *PostgresStore) GetUserPreferences(ctx context.Context, userID string) (models.UserPreferences, error) {
	defer observeQuery("user_preferences")()

	prefs := models.UserPreferences{}

	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, interaction, COALESCE(category, '')
		FROM user_interactions
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return prefs, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	for rows.Next() {
		var itemID, interaction, category string
		if err := rows.Scan(&itemID, &interaction, &category); err != nil {
			return prefs, fmt.Errorf("scan interaction: %w", err)
		}
		appendInteraction(&prefs, itemID, interaction, category)
	}
	if err := rows.Err(); err != nil {
		return prefs, fmt.Errorf("iterate interactions: %w", err)
	}

	var lat, lon sql.NullFloat64
	err = s.db.QueryRowContext(ctx, `
		SELECT latitude, longitude
		FROM user_locations
		WHERE user_id = $1`, userID).Scan(&lat, &lon)
	switch {
	case err == sql.ErrNoRows:
		// Location sharing is optional.
	case err != nil:
		return prefs, fmt.Errorf("query user location: %w", err)
	case lat.Valid && lon.Valid:
		prefs.Location = &models.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
	}

	return prefs, nil
}

// appendInteraction routes one interaction log row into the preference
// snapshot. Every row contributes its category so frequency encodes
// affinity strength.
func appendInteraction(prefs *models.UserPreferences, itemID, interaction, category string) {
	switch interaction {
	case "like":
		prefs.Likes = append(prefs.Likes, itemID)
	case "search":
		prefs.Searches = append(prefs.Searches, itemID)
	case "view":
		prefs.Views = append(prefs.Views, itemID)
	}

	if category != "" {
		prefs.Categories = append(prefs.Categories, category)
	}
}

// GetSocialGraph assembles the social snapshot: the likes of each friend
// plus the followed-user set.
func (s *PostgresStore) GetSocialGraph(ctx context.Context, userID string) (models.SocialGraph, error) {
	defer observeQuery("social_graph")()

	graph := models.SocialGraph{FriendLikes: make(map[string][]string)}

	rows, err := s.db.QueryContext(ctx, `
		SELECT f.friend_id, i.item_id
		FROM friendships f
		JOIN user_interactions i
		  ON i.user_id = f.friend_id AND i.interaction = 'like'
		WHERE f.user_id = $1`, userID)
	if err != nil {
		return graph, fmt.Errorf("query friend likes: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	for rows.Next() {
		var friendID, itemID string
		if err := rows.Scan(&friendID, &itemID); err != nil {
			return graph, fmt.Errorf("scan friend like: %w", err)
		}
		graph.FriendLikes[friendID] = append(graph.FriendLikes[friendID], itemID)
	}
	if err := rows.Err(); err != nil {
		return graph, fmt.Errorf("iterate friend likes: %w", err)
	}

	following, err := s.queryIDs(ctx, `
		SELECT followee_id FROM follows WHERE follower_id = $1`, userID)
	if err != nil {
		return graph, fmt.Errorf("query follows: %w", err)
	}
	graph.Following = following

	return graph, nil
}

// GetCandidatePools loads the feed-eligible records from each pool table
// plus the trending set.
func (s *PostgresStore) GetCandidatePools(ctx context.Context) (discovery.Pools, error) {
	defer observeQuery("candidate_pools")()

	pools := discovery.Pools{}

	itineraries, err := s.queryItineraries(ctx)
	if err != nil {
		return pools, err
	}
	pools.Itineraries = itineraries

	deals, err := s.queryDeals(ctx)
	if err != nil {
		return pools, err
	}
	pools.Deals = deals

	promotions, err := s.queryPromotions(ctx)
	if err != nil {
		return pools, err
	}
	pools.Promotions = promotions

	destinations, err := s.queryDestinations(ctx)
	if err != nil {
		return pools, err
	}
	pools.Destinations = destinations

	users, err := s.queryUsers(ctx)
	if err != nil {
		return pools, err
	}
	pools.Users = users

	trending, err := s.queryIDs(ctx, `
		SELECT item_id FROM trending_items ORDER BY rank ASC`)
	if err != nil {
		return pools, fmt.Errorf("query trending: %w", err)
	}
	pools.TrendingIDs = trending

	return pools, nil
}

// queryItineraries returns published itineraries. The day-by-day schedule
// is stored as a JSONB document.
func (s *PostgresStore) queryItineraries(ctx context.Context) ([]models.Itinerary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, title, COALESCE(description, ''), type,
		       start_date, end_date, likes, latitude, longitude, days
		FROM itineraries
		WHERE published = TRUE
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query itineraries: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var itineraries []models.Itinerary
	for rows.Next() {
		var it models.Itinerary
		var lat, lon sql.NullFloat64
		var days []byte

		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Description, &it.Type,
			&it.StartDate, &it.EndDate, &it.Likes, &lat, &lon, &days); err != nil {
			return nil, fmt.Errorf("scan itinerary: %w", err)
		}
		it.Published = true
		it.Location = coordinates(lat, lon)

		if len(days) > 0 {
			if err := json.Unmarshal(days, &it.Days); err != nil {
				return nil, fmt.Errorf("decode itinerary %s days: %w", it.ID, err)
			}
		}

		itineraries = append(itineraries, it)
	}
	return itineraries, rows.Err()
}

// queryDeals returns unexpired deals.
func (s *PostgresStore) queryDeals(ctx context.Context) ([]models.Deal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, business_id, title, COALESCE(description, ''), type,
		       price, discount, expires_at, latitude, longitude
		FROM deals
		WHERE expires_at > NOW()
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query deals: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var deals []models.Deal
	for rows.Next() {
		var d models.Deal
		var lat, lon sql.NullFloat64

		if err := rows.Scan(&d.ID, &d.BusinessID, &d.Title, &d.Description, &d.Type,
			&d.Price, &d.Discount, &d.ExpiresAt, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		d.Location = coordinates(lat, lon)
		deals = append(deals, d)
	}
	return deals, rows.Err()
}

// queryPromotions returns currently running promotions.
func (s *PostgresStore) queryPromotions(ctx context.Context) ([]models.Promotion, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, business_id, title, COALESCE(description, ''), type,
		       start_date, end_date, latitude, longitude
		FROM promotions
		WHERE end_date > NOW()
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query promotions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var promotions []models.Promotion
	for rows.Next() {
		var p models.Promotion
		var lat, lon sql.NullFloat64

		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Title, &p.Description, &p.Type,
			&p.StartDate, &p.EndDate, &lat, &lon); err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		p.Location = coordinates(lat, lon)
		promotions = append(promotions, p)
	}
	return promotions, rows.Err()
}

// queryDestinations returns curated destinations.
func (s *PostgresStore) queryDestinations(ctx context.Context) ([]models.Destination, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(country, ''), latitude, longitude, COALESCE(description, '')
		FROM destinations
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query destinations: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var destinations []models.Destination
	for rows.Next() {
		var d models.Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Country, &d.Latitude, &d.Longitude, &d.Description); err != nil {
			return nil, fmt.Errorf("scan destination: %w", err)
		}
		destinations = append(destinations, d)
	}
	return destinations, rows.Err()
}

// queryUsers returns public profiles eligible for people suggestions.
func (s *PostgresStore) queryUsers(ctx context.Context) ([]models.UserProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, COALESCE(display_name, ''), followers
		FROM user_profiles
		WHERE public = TRUE
		ORDER BY followers DESC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var users []models.UserProfile
	for rows.Next() {
		var u models.UserProfile
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Followers); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// queryIDs runs a single-column string query.
func (s *PostgresStore) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// observeQuery times a storage query for the Prometheus histogram.
func observeQuery(name string) func() {
	start := time.Now()
	return func() {
		metrics.RecordStoreQuery(name, time.Since(start))
	}
}

// coordinates builds an optional coordinate pair from nullable columns.
func coordinates(lat, lon sql.NullFloat64) *models.Coordinates {
	if !lat.Valid || !lon.Valid {
		return nil
	}
	return &models.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
}
