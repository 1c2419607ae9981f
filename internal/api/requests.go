// Waypost - Travel Itinerary Discovery and Social Feed Platform
// Copyright 2026 Waypost Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/waypost/waypost

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/waypost/waypost/internal/discovery"
)

// FeedRequest is the wire form of a feed request, accepted as a JSON body
// on POST or as query parameters on GET.
type FeedRequest struct {
	// UserID is the user to assemble the feed for.
	UserID string `json:"user_id" validate:"required,min=1,max=128"`

	// Filters optionally narrows the candidate set.
	Filters *FeedFilters `json:"filters,omitempty"`
}

// FeedFilters is the wire form of the optional feed filters.
type FeedFilters struct {
	// Types is an item type allow-list.
	Types []string `json:"types,omitempty" validate:"omitempty,dive,oneof=itinerary deal promotion destination user"`

	// Categories is a category allow-list.
	Categories []string `json:"categories,omitempty" validate:"omitempty,dive,min=1,max=64"`

	// PriceRange is [min, max], applied to deal candidates.
	PriceRange []float64 `json:"price_range,omitempty" validate:"omitempty,len=2"`

	// DateRange is [from] or [from, to] as RFC 3339 or YYYY-MM-DD dates,
	// applied to itinerary and promotion start dates.
	DateRange []string `json:"date_range,omitempty" validate:"omitempty,min=1,max=2,dive,min=1"`
}

// requestValidator validates incoming requests against struct tags.
var requestValidator = validator.New(validator.WithRequiredStructEnabled())

// maxRequestBodyBytes bounds POST bodies; feed requests are small.
const maxRequestBodyBytes = 64 << 10

// decodeFeedRequest extracts a FeedRequest from either a GET query string
// or a POST JSON body, then validates it.
func decodeFeedRequest(r *http.Request) (*FeedRequest, error) {
	var req *FeedRequest
	var err error

	switch r.Method {
	case http.MethodGet:
		req, err = feedRequestFromQuery(r)
	case http.MethodPost:
		req, err = feedRequestFromBody(r)
	default:
		return nil, fmt.Errorf("unsupported method %s", r.Method)
	}
	if err != nil {
		return nil, err
	}

	if err := requestValidator.Struct(req); err != nil {
		return nil, err
	}
	return req, nil
}

// feedRequestFromQuery parses the GET parameter form. The user comes from
// the {userID} path segment or the user_id parameter.
// Comma-separated lists for types and categories; price_min/price_max and
// date_from/date_to for the ranges.
func feedRequestFromQuery(r *http.Request) (*FeedRequest, error) {
	q := r.URL.Query()

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		userID = q.Get("user_id")
	}
	req := &FeedRequest{UserID: userID}

	filters := &FeedFilters{
		Types:      splitParam(q.Get("types")),
		Categories: splitParam(q.Get("categories")),
	}

	minStr, maxStr := q.Get("price_min"), q.Get("price_max")
	if minStr != "" || maxStr != "" {
		priceMin, err := parsePrice(minStr, 0)
		if err != nil {
			return nil, fmt.Errorf("invalid price_min: %w", err)
		}
		priceMax, err := parsePrice(maxStr, 0)
		if err != nil {
			return nil, fmt.Errorf("invalid price_max: %w", err)
		}
		if maxStr == "" {
			return nil, errors.New("price_max is required when price_min is set")
		}
		filters.PriceRange = []float64{priceMin, priceMax}
	}

	if from := q.Get("date_from"); from != "" {
		filters.DateRange = []string{from}
		if to := q.Get("date_to"); to != "" {
			filters.DateRange = append(filters.DateRange, to)
		}
	} else if q.Get("date_to") != "" {
		return nil, errors.New("date_from is required when date_to is set")
	}

	if !filters.empty() {
		req.Filters = filters
	}
	return req, nil
}

// feedRequestFromBody parses the POST JSON form.
func feedRequestFromBody(r *http.Request) (*FeedRequest, error) {
	body := http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)

	var req FeedRequest
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	return &req, nil
}

// decodeEngineConfig parses an engine configuration body for config updates.
func decodeEngineConfig(r *http.Request) (*discovery.Config, error) {
	body := http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes)

	var cfg discovery.Config
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config body: %w", err)
	}
	return &cfg, nil
}

// empty reports whether no filter field is set.
func (f *FeedFilters) empty() bool {
	return len(f.Types) == 0 && len(f.Categories) == 0 &&
		len(f.PriceRange) == 0 && len(f.DateRange) == 0
}

// ToDiscovery converts the validated wire form into engine filters.
func (f *FeedFilters) ToDiscovery() (*discovery.Filters, error) {
	if f == nil || f.empty() {
		return nil, nil
	}

	filters := &discovery.Filters{
		Types:      f.Types,
		Categories: f.Categories,
	}

	if len(f.PriceRange) == 2 {
		if f.PriceRange[0] > f.PriceRange[1] {
			return nil, fmt.Errorf("price_range min %v exceeds max %v", f.PriceRange[0], f.PriceRange[1])
		}
		filters.PriceRange = &discovery.PriceRange{Min: f.PriceRange[0], Max: f.PriceRange[1]}
	}

	if len(f.DateRange) > 0 {
		start, err := parseDate(f.DateRange[0])
		if err != nil {
			return nil, fmt.Errorf("invalid date_range start: %w", err)
		}
		dr := &discovery.DateRange{Start: start}

		if len(f.DateRange) == 2 {
			end, err := parseDate(f.DateRange[1])
			if err != nil {
				return nil, fmt.Errorf("invalid date_range end: %w", err)
			}
			if end.Before(start) {
				return nil, fmt.Errorf("date_range end %s precedes start %s", f.DateRange[1], f.DateRange[0])
			}
			dr.End = end
		}
		filters.DateRange = dr
	}

	return filters, nil
}

// splitParam splits a comma-separated query parameter, dropping blanks.
func splitParam(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parsePrice parses a price parameter, using fallback for empty input.
func parsePrice(value string, fallback float64) (float64, error) {
	if value == "" {
		return fallback, nil
	}

	price, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if price < 0 {
		return 0, fmt.Errorf("price %v must not be negative", price)
	}
	return price, nil
}

// parseDate accepts RFC 3339 timestamps or bare YYYY-MM-DD dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// formatValidationErrors flattens validator errors into client-readable strings.
func formatValidationErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("field %s failed %s validation", fe.Field(), fe.Tag()))
	}
	return out
}
