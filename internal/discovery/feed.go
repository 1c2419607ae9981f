// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package discovery

import (
	"sort"
	"time"

	"github.com/waypost/waypost/internal/models"
)

// Recency and popularity heuristics. These are deliberate
// approximations: freshly listed content classes get a fixed recency
// boost, and popularity is derived from the engagement field each record
// type carries.
const (
	// recencyFresh applies to itineraries, deals, and promotions.
	recencyFresh = 0.8

	// recencyDefault applies to destinations and user profiles.
	recencyDefault = 0.5

	// popularityDefault applies where no engagement signal exists.
	popularityDefault = 0.5

	// likesPerFullPopularity is the like count at which an itinerary
	// reaches popularity 1.0.
	likesPerFullPopularity = 1000.0

	// discountPerFullPopularity is the discount percentage at which a
	// deal reaches popularity 1.0.
	discountPerFullPopularity = 100.0
)

// defaultDateCeiling substitutes for an open-ended date range filter.
var defaultDateCeiling = time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)

// candidate carries a feed item together with the per-type attributes the
// assembler needs for filtering and scoring. Internal to one assembly pass.
type candidate struct {
	item Item

	location  *models.Coordinates
	startDate *time.Time
	price     *float64

	recency    float64
	popularity float64
}

// Assembler turns candidate pools and user snapshots into a sectioned
// discovery feed. It holds no per-request state; Assemble is a pure
// function of its inputs, so one Assembler serves concurrent requests.
type Assembler struct {
	cfg *Config

	// now is injectable for deterministic seasonal tests.
	now func() time.Time
}

// NewAssembler creates a feed assembler. A nil cfg uses DefaultConfig.
func NewAssembler(cfg *Config) *Assembler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Assembler{cfg: cfg, now: time.Now}
}

// Assemble scores every candidate against the user snapshots and derives
// the named feed sections from one stable descending sort. Sections are
// non-exclusive views: a candidate may appear in several.
func (a *Assembler) Assemble(prefs models.UserPreferences, social models.SocialGraph, pools Pools, filters *Filters) *FeedResponse {
	candidates := applyFilters(flattenPools(pools), filters)

	gen := NewReasonGenerator(prefs, social, pools.TrendingIDs)
	if a.cfg.SeasonalEnabled {
		gen = gen.WithSeasonal(a.now())
	}

	items := make([]Item, 0, len(candidates))
	for _, c := range candidates {
		c.item.Reasons = gen.Reasons(c.item.ID, c.location, c.startDate)
		c.item.Score = CalculateScore(c.item.Reasons, c.recency, c.popularity)
		items = append(items, c.item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	sections := a.cfg.Sections
	return &FeedResponse{
		PersonalRecommendations: topN(items, sections.PersonalSize),
		Trending:                sectionBySource(items, sections.SectionSize, SourceTrending),
		ForYou:                  sectionBySource(items, sections.SectionSize, SourceLiked, SourceSearched, SourceViewed),
		Nearby:                  sectionBySource(items, sections.SectionSize, SourceLocation),
		FriendsLiked:            sectionBySource(items, sections.SectionSize, SourceFriend),
		Seasonal:                sectionBySource(items, sections.SectionSize, SourceSeasonal),
		Similar:                 a.similarGroups(items, prefs.Categories),
		TotalCandidates:         len(items),
	}
}

// flattenPools merges the five candidate pools into one list, tagging each
// entry with its type and carrying the attributes later stages need.
// Pool order is preserved; it is the tie-break order under stable sort.
func flattenPools(pools Pools) []candidate {
	total := len(pools.Itineraries) + len(pools.Deals) + len(pools.Promotions) +
		len(pools.Destinations) + len(pools.Users)
	candidates := make([]candidate, 0, total)

	for i := range pools.Itineraries {
		it := pools.Itineraries[i]
		candidates = append(candidates, candidate{
			item: Item{
				ID:       it.ID,
				Type:     TypeItinerary,
				Category: it.Type,
				Record:   it,
			},
			location:   it.Location,
			startDate:  &it.StartDate,
			recency:    recencyFresh,
			popularity: float64(it.Likes) / likesPerFullPopularity,
		})
	}

	for i := range pools.Deals {
		d := pools.Deals[i]
		candidates = append(candidates, candidate{
			item: Item{
				ID:       d.ID,
				Type:     TypeDeal,
				Category: d.Type,
				Record:   d,
			},
			location:   d.Location,
			price:      &d.Price,
			recency:    recencyFresh,
			popularity: d.Discount / discountPerFullPopularity,
		})
	}

	for i := range pools.Promotions {
		p := pools.Promotions[i]
		candidates = append(candidates, candidate{
			item: Item{
				ID:       p.ID,
				Type:     TypePromotion,
				Category: p.Type,
				Record:   p,
			},
			location:   p.Location,
			startDate:  &p.StartDate,
			recency:    recencyFresh,
			popularity: popularityDefault,
		})
	}

	for i := range pools.Destinations {
		d := pools.Destinations[i]
		candidates = append(candidates, candidate{
			item: Item{
				ID:     d.ID,
				Type:   TypeDestination,
				Record: d,
			},
			location:   &models.Coordinates{Latitude: d.Latitude, Longitude: d.Longitude},
			recency:    recencyDefault,
			popularity: popularityDefault,
		})
	}

	for i := range pools.Users {
		u := pools.Users[i]
		candidates = append(candidates, candidate{
			item: Item{
				ID:     u.ID,
				Type:   TypeUser,
				Record: u,
			},
			recency:    recencyDefault,
			popularity: popularityDefault,
		})
	}

	return candidates
}

// applyFilters drops candidates failing any present filter. Filters
// combine with AND semantics; a nil filter set passes everything.
func applyFilters(candidates []candidate, f *Filters) []candidate {
	if f == nil {
		return candidates
	}

	filtered := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if !matchesTypes(c, f.Types) {
			continue
		}
		if !matchesCategories(c, f.Categories) {
			continue
		}
		if !matchesPrice(c, f.PriceRange) {
			continue
		}
		if !matchesDate(c, f.DateRange) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

// matchesTypes applies the item type allow-list.
func matchesTypes(c candidate, types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if string(c.item.Type) == t {
			return true
		}
	}
	return false
}

// matchesCategories applies the category allow-list.
func matchesCategories(c candidate, categories []string) bool {
	if len(categories) == 0 {
		return true
	}
	for _, cat := range categories {
		if c.item.Category == cat {
			return true
		}
	}
	return false
}

// matchesPrice applies the price range to deals. Candidates without a
// price pass through unfiltered.
func matchesPrice(c candidate, pr *PriceRange) bool {
	if pr == nil || c.price == nil {
		return true
	}
	return *c.price >= pr.Min && *c.price <= pr.Max
}

// matchesDate applies the date range to candidates carrying a start date
// (itineraries and promotions). An open-ended range admits start dates up
// to the default ceiling.
func matchesDate(c candidate, dr *DateRange) bool {
	if dr == nil || c.startDate == nil {
		return true
	}

	end := dr.End
	if end.IsZero() {
		end = defaultDateCeiling
	}

	start := *c.startDate
	return !start.Before(dr.Start) && !start.After(end)
}

// topN returns up to n items from the head of the sorted list.
func topN(items []Item, n int) []Item {
	if len(items) < n {
		n = len(items)
	}
	out := make([]Item, n)
	copy(out, items[:n])
	return out
}

// sectionBySource returns up to limit items carrying a reason from any of
// the given sources, preserving sorted order.
func sectionBySource(items []Item, limit int, sources ...ReasonSource) []Item {
	section := make([]Item, 0, limit)
	for _, item := range items {
		for _, src := range sources {
			if item.HasReason(src) {
				section = append(section, item)
				break
			}
		}
		if len(section) == limit {
			break
		}
	}
	return section
}

// similarGroups groups top items under the user's most frequent
// preference categories.
func (a *Assembler) similarGroups(items []Item, categories []string) []CategoryGroup {
	top := topCategories(categories, a.cfg.Sections.SimilarCategories)

	groups := make([]CategoryGroup, 0, len(top))
	for _, cat := range top {
		group := CategoryGroup{Category: cat, Items: make([]Item, 0, a.cfg.Sections.SimilarPerCategory)}
		for _, item := range items {
			if item.Category != cat {
				continue
			}
			group.Items = append(group.Items, item)
			if len(group.Items) == a.cfg.Sections.SimilarPerCategory {
				break
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// topCategories returns the n most frequent categories. Ties break
// alphabetically so output is deterministic.
func topCategories(categories []string, n int) []string {
	counts := make(map[string]int, len(categories))
	for _, cat := range categories {
		if cat != "" {
			counts[cat]++
		}
	}

	unique := make([]string, 0, len(counts))
	for cat := range counts {
		unique = append(unique, cat)
	}
	sort.Slice(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return unique[i] < unique[j]
	})

	if len(unique) > n {
		unique = unique[:n]
	}
	return unique
}
