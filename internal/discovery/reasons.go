// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package discovery

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/waypost/waypost/internal/models"
)

// Reason weights by source. Each check contributes independently; a
// candidate matching several signals accumulates several reasons with no
// deduplication or cap.
const (
	weightLiked    = 1.0
	weightSearched = 0.8
	weightViewed   = 0.5
	weightFriend   = 0.7
	weightFollowed = 0.6
	weightTrending = 0.4
	weightLocation = 0.6
	weightSeasonal = 0.5

	// weightFallback is the generic trending weight assigned when no
	// other signal matched. Every candidate gets at least one reason.
	weightFallback = 0.3

	// nearbyRadiusKm is the distance under which a location reason fires.
	nearbyRadiusKm = 50.0
)

// ReasonGenerator produces recommendation reasons for feed candidates.
// It is built once per request from the user's preference and social
// snapshots, indexing them for O(1) membership tests, and is then a pure
// function over its inputs.
type ReasonGenerator struct {
	liked    map[string]struct{}
	searched map[string]struct{}
	viewed   map[string]struct{}

	friendLikes map[string][]string
	following   map[string]struct{}
	trending    map[string]struct{}

	userLocation *models.Coordinates

	// seasonal enables travel-date season matching against now.
	seasonal bool
	now      time.Time
}

// NewReasonGenerator indexes the request snapshots for reason generation.
// Seasonal detection is off; use WithSeasonal to enable it.
func NewReasonGenerator(prefs models.UserPreferences, social models.SocialGraph, trendingIDs []string) *ReasonGenerator {
	return &ReasonGenerator{
		liked:        toSet(prefs.Likes),
		searched:     toSet(prefs.Searches),
		viewed:       toSet(prefs.Views),
		friendLikes:  social.FriendLikes,
		following:    toSet(social.Following),
		trending:     toSet(trendingIDs),
		userLocation: prefs.Location,
	}
}

// WithSeasonal enables seasonal reasons: candidates whose travel start
// date falls in the same month as now get a seasonal reason.
func (g *ReasonGenerator) WithSeasonal(now time.Time) *ReasonGenerator {
	g.seasonal = true
	g.now = now
	return g
}

// Reasons returns the ordered reason list for one candidate. Each signal
// is checked independently without short-circuiting; if nothing matched,
// a single fallback trending reason is returned so every candidate has at
// least one reason.
//
// itemLocation and startDate may be nil: missing data skips the
// corresponding check rather than producing an error.
func (g *ReasonGenerator) Reasons(itemID string, itemLocation *models.Coordinates, startDate *time.Time) []Reason {
	var reasons []Reason

	if _, ok := g.liked[itemID]; ok {
		reasons = append(reasons, Reason{
			Source:      SourceLiked,
			Weight:      weightLiked,
			Description: "You liked this",
		})
	}

	if _, ok := g.searched[itemID]; ok {
		reasons = append(reasons, Reason{
			Source:      SourceSearched,
			Weight:      weightSearched,
			Description: "Matches your recent searches",
		})
	}

	if _, ok := g.viewed[itemID]; ok {
		reasons = append(reasons, Reason{
			Source:      SourceViewed,
			Weight:      weightViewed,
			Description: "You viewed this recently",
		})
	}

	if friends := g.friendsWhoLiked(itemID); len(friends) > 0 {
		reasons = append(reasons, Reason{
			Source:       SourceFriend,
			Weight:       weightFriend,
			Description:  friendDescription(len(friends)),
			RelatedItems: friends,
		})
	}

	if _, ok := g.following[itemID]; ok {
		reasons = append(reasons, Reason{
			Source:      SourceFollowed,
			Weight:      weightFollowed,
			Description: "From someone you follow",
		})
	}

	if _, ok := g.trending[itemID]; ok {
		reasons = append(reasons, Reason{
			Source:      SourceTrending,
			Weight:      weightTrending,
			Description: "Trending now",
		})
	}

	if g.userLocation != nil && itemLocation != nil {
		distance := haversineDistance(
			g.userLocation.Latitude, g.userLocation.Longitude,
			itemLocation.Latitude, itemLocation.Longitude,
		)
		if distance < nearbyRadiusKm {
			reasons = append(reasons, Reason{
				Source:      SourceLocation,
				Weight:      weightLocation,
				Description: fmt.Sprintf("Only %d km away", int(math.Round(distance))),
			})
		}
	}

	if g.seasonal && startDate != nil && startDate.Month() == g.now.Month() {
		reasons = append(reasons, Reason{
			Source:      SourceSeasonal,
			Weight:      weightSeasonal,
			Description: "In season this month",
		})
	}

	if len(reasons) == 0 {
		reasons = append(reasons, Reason{
			Source:      SourceTrending,
			Weight:      weightFallback,
			Description: "Popular right now",
		})
	}

	return reasons
}

// friendsWhoLiked returns the sorted set of friend IDs whose like list
// contains itemID. Sorting keeps output deterministic across map
// iteration orders.
func (g *ReasonGenerator) friendsWhoLiked(itemID string) []string {
	var friends []string
	for friendID, likes := range g.friendLikes {
		for _, id := range likes {
			if id == itemID {
				friends = append(friends, friendID)
				break
			}
		}
	}
	sort.Strings(friends)
	return friends
}

// friendDescription pluralizes the friend reason description.
func friendDescription(count int) string {
	if count == 1 {
		return "1 friend liked this"
	}
	return fmt.Sprintf("%d friends liked this", count)
}

// toSet builds a membership set from a slice of IDs.
func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
