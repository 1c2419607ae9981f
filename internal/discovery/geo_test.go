// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package discovery

import (
	"math"
	"testing"
)

func TestHaversineDistanceIdenticalPoints(t *testing.T) {
	t.Parallel()

	if d := haversineDistance(48.8566, 2.3522, 48.8566, 2.3522); d != 0 {
		t.Errorf("distance between identical points = %v, want 0", d)
	}
}

func TestHaversineDistanceSymmetry(t *testing.T) {
	t.Parallel()

	ab := haversineDistance(48.8566, 2.3522, 51.5074, -0.1278)
	ba := haversineDistance(51.5074, -0.1278, 48.8566, 2.3522)

	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
}

func TestHaversineDistanceKnownPairs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm, tolerance      float64
	}{
		{"Paris to London", 48.8566, 2.3522, 51.5074, -0.1278, 344, 5},
		{"Tokyo to Osaka", 35.6762, 139.6503, 34.6937, 135.5023, 400, 10},
		{"equator degree of longitude", 0, 0, 0, 1, 111.19, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := haversineDistance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("distance = %v km, want %v ± %v", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}
