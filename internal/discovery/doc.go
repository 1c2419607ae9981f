// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

// Package discovery implements the discovery feed recommendation engine.
//
// The engine scores heterogeneous candidate pools (itineraries, deals,
// promotions, destinations, user profiles) against a user's interaction
// history and social graph, then partitions the scored list into the named
// feed sections served by the API.
//
// The scoring pass itself is a pure, synchronous computation over
// request-scoped snapshots: the PoolProvider fetches all inputs up front,
// and no shared state is mutated while assembling a feed. The Engine adds
// caching and observability around that pure core.
package discovery
