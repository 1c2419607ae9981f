// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package discovery

import (
	"fmt"
	"time"
)

// Config contains all configuration for the discovery engine.
// Reason weights and the per-source score constants are fixed; only
// section sizing, caching, and the seasonal toggle are tunable.
type Config struct {
	// Sections contains section sizing limits.
	Sections SectionsConfig `json:"sections"`

	// Cache contains feed caching parameters.
	Cache CacheConfig `json:"cache"`

	// SeasonalEnabled turns on seasonal reason detection (travel start
	// dates matching the current month).
	// Default: false.
	SeasonalEnabled bool `json:"seasonal_enabled"`
}

// SectionsConfig contains section sizing limits.
type SectionsConfig struct {
	// PersonalSize is the size of the personal recommendations section.
	// Default: 5.
	PersonalSize int `json:"personal_size"`

	// SectionSize is the size of the trending, for-you, nearby,
	// friends-liked, and seasonal sections.
	// Default: 10.
	SectionSize int `json:"section_size"`

	// SimilarCategories is how many preference categories the similar
	// section groups by.
	// Default: 3.
	SimilarCategories int `json:"similar_categories"`

	// SimilarPerCategory is the maximum items per category group.
	// Default: 6.
	SimilarPerCategory int `json:"similar_per_category"`
}

// CacheConfig contains feed caching parameters.
type CacheConfig struct {
	// Enabled controls whether assembled feeds are cached.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 2m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached feeds.
	// Default: 1000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Sections: SectionsConfig{
			PersonalSize:       5,
			SectionSize:        10,
			SimilarCategories:  3,
			SimilarPerCategory: 6,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        2 * time.Minute,
			MaxEntries: 1000,
		},
		SeasonalEnabled: false,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Sections.PersonalSize < 1 {
		return fmt.Errorf("sections.personal_size must be positive, got %d", c.Sections.PersonalSize)
	}
	if c.Sections.SectionSize < 1 {
		return fmt.Errorf("sections.section_size must be positive, got %d", c.Sections.SectionSize)
	}
	if c.Sections.SimilarCategories < 1 {
		return fmt.Errorf("sections.similar_categories must be positive, got %d", c.Sections.SimilarCategories)
	}
	if c.Sections.SimilarPerCategory < 1 {
		return fmt.Errorf("sections.similar_per_category must be positive, got %d", c.Sections.SimilarPerCategory)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	return &Config{
		Sections:        c.Sections,
		Cache:           c.Cache,
		SeasonalEnabled: c.SeasonalEnabled,
	}
}
