// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package discovery

import (
	"time"

	"github.com/waypost/waypost/internal/models"
)

// ItemType classifies feed candidates by their underlying domain record.
type ItemType string

const (
	// TypeItinerary is a user-authored travel plan.
	TypeItinerary ItemType = "itinerary"
	// TypeDeal is a discounted travel offer.
	TypeDeal ItemType = "deal"
	// TypePromotion is a sponsored placement.
	TypePromotion ItemType = "promotion"
	// TypeDestination is a curated place page.
	TypeDestination ItemType = "destination"
	// TypeUser is a suggested profile to follow.
	TypeUser ItemType = "user"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case TypeItinerary, TypeDeal, TypePromotion, TypeDestination, TypeUser:
		return true
	default:
		return false
	}
}

// ReasonSource is the categorical origin of a recommendation reason.
type ReasonSource string

const (
	// SourceLiked indicates the user liked this item.
	SourceLiked ReasonSource = "liked"
	// SourceSearched indicates the item matches the user's search history.
	SourceSearched ReasonSource = "searched"
	// SourceViewed indicates the user recently viewed this item.
	SourceViewed ReasonSource = "viewed"
	// SourceFriend indicates one or more friends liked this item.
	SourceFriend ReasonSource = "friend"
	// SourceFollowed indicates the item belongs to a followed creator.
	SourceFollowed ReasonSource = "followed"
	// SourceTrending indicates platform-wide trending membership.
	SourceTrending ReasonSource = "trending"
	// SourceLocation indicates geographic proximity to the user.
	SourceLocation ReasonSource = "location"
	// SourceSeasonal indicates travel dates matching the current season.
	SourceSeasonal ReasonSource = "seasonal"
)

// ScoreWeight returns the fixed per-source constant the score calculator
// multiplies each reason weight by. Stronger signals carry larger constants.
func (s ReasonSource) ScoreWeight() float64 {
	switch s {
	case SourceLiked:
		return 10
	case SourceSearched:
		return 8
	case SourceFriend:
		return 7
	case SourceFollowed:
		return 6
	case SourceLocation:
		return 6
	case SourceViewed:
		return 5
	case SourceTrending:
		return 4
	case SourceSeasonal:
		return 3
	default:
		return 0
	}
}

// Reason is an immutable, weighted explanation for why a candidate is
// relevant to a user. Multiple reasons may attach to one candidate; their
// weights are summed during scoring, so attachment order never matters.
type Reason struct {
	// Source is the categorical origin of the reason.
	Source ReasonSource `json:"source"`

	// Weight is the reason strength in [0, 1].
	Weight float64 `json:"weight"`

	// Description is a human-readable explanation shown in the feed.
	Description string `json:"description"`

	// RelatedItems lists entity IDs that produced the reason, e.g. the
	// friends whose likes triggered a friend reason.
	RelatedItems []string `json:"related_items,omitempty"`
}

// Item is a scored feed candidate wrapping one domain record.
// Constructed fresh per request from the candidate pools and discarded
// after the response is produced.
type Item struct {
	// ID is the underlying record's identifier.
	ID string `json:"id"`

	// Type tags which domain record Record holds.
	Type ItemType `json:"type"`

	// Category is the record's own type field for itineraries, deals, and
	// promotions (trip, hotel, event, ...); empty for other candidates.
	Category string `json:"category,omitempty"`

	// Record is the underlying domain record. Type selects the concrete
	// type: models.Itinerary, models.Deal, models.Promotion,
	// models.Destination, or models.UserProfile.
	Record any `json:"item"`

	// Score is the combined ranking score. Unbounded above; higher ranks first.
	Score float64 `json:"score"`

	// Reasons explains the score, in generation order.
	Reasons []Reason `json:"reasons"`
}

// HasReason reports whether any attached reason has the given source.
func (i Item) HasReason(source ReasonSource) bool {
	for _, r := range i.Reasons {
		if r.Source == source {
			return true
		}
	}
	return false
}

// PriceRange bounds deal prices, inclusive on both ends.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DateRange bounds itinerary and promotion start dates.
type DateRange struct {
	// Start is the earliest admissible start date.
	Start time.Time `json:"start"`

	// End is the latest admissible start date. A zero End means
	// open-ended (an internal far-future ceiling is substituted).
	End time.Time `json:"end,omitempty"`
}

// Filters narrows the candidate set before scoring. All fields are
// optional; present fields combine with AND semantics.
type Filters struct {
	// Types is an item type allow-list.
	Types []string `json:"types,omitempty"`

	// Categories is a category allow-list.
	Categories []string `json:"categories,omitempty"`

	// PriceRange applies to deal candidates only; other types pass through.
	PriceRange *PriceRange `json:"price_range,omitempty"`

	// DateRange applies to itinerary and promotion candidates only.
	DateRange *DateRange `json:"date_range,omitempty"`
}

// Request is a single feed assembly request.
type Request struct {
	// UserID is the user to assemble the feed for.
	UserID string `json:"user_id"`

	// Filters optionally narrows the candidate set.
	Filters *Filters `json:"filters,omitempty"`

	// RequestID is a unique identifier for tracing. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// Pools bundles the five candidate pools plus the trending set, fetched
// once per request by the PoolProvider.
type Pools struct {
	Itineraries  []models.Itinerary   `json:"itineraries"`
	Deals        []models.Deal        `json:"deals"`
	Promotions   []models.Promotion   `json:"promotions"`
	Destinations []models.Destination `json:"destinations"`
	Users        []models.UserProfile `json:"users"`

	// TrendingIDs is the platform-wide trending item set.
	TrendingIDs []string `json:"trending_ids"`
}

// CategoryGroup is one entry of the similar section: the top items within
// a single preference category.
type CategoryGroup struct {
	Category string `json:"category"`
	Items    []Item `json:"items"`
}

// FeedResponse is the assembled discovery feed. Sections are non-exclusive
// views over one scored list, so a candidate may appear in several.
type FeedResponse struct {
	// PersonalRecommendations is the top of the full ranking.
	PersonalRecommendations []Item `json:"personal_recommendations"`

	// Trending holds candidates with a trending reason.
	Trending []Item `json:"trending"`

	// ForYou holds candidates matching the user's own likes, searches, or views.
	ForYou []Item `json:"for_you"`

	// Nearby holds candidates with a location reason.
	Nearby []Item `json:"nearby"`

	// FriendsLiked holds candidates with a friend reason.
	FriendsLiked []Item `json:"friends_liked"`

	// Seasonal holds candidates with a seasonal reason. Empty unless
	// seasonal detection is enabled in the engine config.
	Seasonal []Item `json:"seasonal"`

	// Similar groups top items under the user's most frequent preference
	// categories.
	Similar []CategoryGroup `json:"similar"`

	// TotalCandidates is the pool size after filtering.
	TotalCandidates int `json:"total_candidates"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// UserID is the user the feed was assembled for.
	UserID string `json:"user_id"`

	// LatencyMS is the total assembly latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates whether the result was served from cache.
	CacheHit bool `json:"cache_hit"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}

// Metrics contains engine counters for observability.
type Metrics struct {
	// RequestCount is the total number of feed requests.
	RequestCount int64 `json:"request_count"`

	// CacheHits is the number of cache hits.
	CacheHits int64 `json:"cache_hits"`

	// CacheMisses is the number of cache misses.
	CacheMisses int64 `json:"cache_misses"`

	// ErrorCount is the total number of failed requests.
	ErrorCount int64 `json:"error_count"`
}
