// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

// Package models defines the travel domain records that flow through the
// discovery feed: itineraries, deals, promotions, destinations, and user
// profiles. These are read-only snapshots from the platform database; the
// feed never mutates them.
package models

import "time"

// Coordinates is a geographic point in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Visit is a single stop within an itinerary day.
type Visit struct {
	// Location is the display name of the stop.
	Location string `json:"location"`

	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	// Transport is how the traveler arrives; nil for the first visit of a day.
	Transport *string `json:"transport,omitempty"`
}

// Day is one day of an itinerary's schedule.
type Day struct {
	Date   string  `json:"date"`
	Visits []Visit `json:"visits"`
}

// Itinerary is a user-authored travel plan.
type Itinerary struct {
	// ID is the itinerary identifier.
	ID string `json:"id"`

	// OwnerID is the authoring user.
	OwnerID string `json:"owner_id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Type is the itinerary kind (trip, weekend, roadtrip). The feed uses
	// this as the candidate's category.
	Type string `json:"type"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	// Published itineraries are eligible for the discovery feed.
	Published bool `json:"published"`

	// Likes is the aggregate like count.
	Likes int `json:"likes"`

	// Location is the primary destination point, when geocoded.
	Location *Coordinates `json:"location,omitempty"`

	// Days is the day-by-day schedule.
	Days []Day `json:"days,omitempty"`
}

// Deal is a time-boxed discounted travel offer from a business account.
type Deal struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Type is the deal kind (flight, hotel, package). The feed uses this
	// as the candidate's category.
	Type string `json:"type"`

	// Price is the offer price in the platform currency.
	Price float64 `json:"price"`

	// Discount is the percentage off (0-100).
	Discount float64 `json:"discount"`

	ExpiresAt time.Time `json:"expires_at"`

	Location *Coordinates `json:"location,omitempty"`
}

// Promotion is a sponsored placement from a business or creator account.
type Promotion struct {
	ID         string `json:"id"`
	BusinessID string `json:"business_id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Type is the promotion kind (event, experience, tour). The feed uses
	// this as the candidate's category.
	Type string `json:"type"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	Location *Coordinates `json:"location,omitempty"`
}

// Destination is a curated place page.
type Destination struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Description string `json:"description,omitempty"`
}

// UserProfile is a public profile eligible for people suggestions.
type UserProfile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`

	// Followers is the aggregate follower count.
	Followers int `json:"followers"`
}

// UserPreferences is the per-request snapshot of a user's interaction history.
// Supplied by the storage layer; never mutated by the feed.
type UserPreferences struct {
	// Likes, Searches, and Views are item IDs from the interaction log.
	Likes    []string `json:"likes"`
	Searches []string `json:"searches"`
	Views    []string `json:"views"`

	// Categories are category affinities, one entry per interaction, so
	// frequency encodes strength.
	Categories []string `json:"categories"`

	// Location is the user's last known position, when shared.
	Location *Coordinates `json:"location,omitempty"`
}

// SocialGraph is the per-request snapshot of a user's social surroundings.
type SocialGraph struct {
	// FriendLikes maps friend ID to the item IDs that friend has liked.
	FriendLikes map[string][]string `json:"friend_likes"`

	// Following is the set of user IDs this user follows.
	Following []string `json:"following"`
}
