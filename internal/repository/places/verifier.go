// Package places verifies scout output against the Google Places API (New)
// Text Search endpoint. It shares one API key across venue verification and
// accommodation geocoding, and never fails a request: anything it cannot
// confirm is passed through marked unverified.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
)

const (
	defaultAPIURL  = "https://places.googleapis.com/v1/places:searchText"
	verifyFields   = "places.id,places.displayName,places.businessStatus,places.googleMapsUri,places.location"
	geocodeFields  = "places.location"
	maxVerifyConcurrency = 10
)

type Verifier struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewVerifier(apiKey string, timeout time.Duration) *Verifier {
	return &Verifier{
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		client: &http.Client{Timeout: timeout},
	}
}

func (v *Verifier) Enabled() bool { return v.apiKey != "" }

type searchRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount"`
}

type searchResponse struct {
	Places []struct {
		ID             string `json:"id"`
		BusinessStatus string `json:"businessStatus"`
		GoogleMapsURI  string `json:"googleMapsUri"`
		Location       struct {
			Latitude  *float64 `json:"latitude"`
			Longitude *float64 `json:"longitude"`
		} `json:"location"`
	} `json:"places"`
}

// Geocode resolves a free-text address to coordinates. ok is false when the
// key is missing, the lookup fails, or nothing matches.
func (v *Verifier) Geocode(ctx context.Context, location string) (float64, float64, bool) {
	if !v.Enabled() || location == "" {
		return 0, 0, false
	}
	result, err := v.search(ctx, location, geocodeFields)
	if err != nil {
		log.Printf("places: geocoding failed for %.60q: %v", location, err)
		return 0, 0, false
	}
	if len(result.Places) == 0 {
		return 0, 0, false
	}
	loc := result.Places[0].Location
	if loc.Latitude == nil || loc.Longitude == nil {
		return 0, 0, false
	}
	log.Printf("places: geocoded %.60q to (%.5f, %.5f)", location, *loc.Latitude, *loc.Longitude)
	return *loc.Latitude, *loc.Longitude, true
}

// VerifyBatch checks every item concurrently and drops the ones Google
// reports as closed, temporarily or permanently. Each surviving item carries
// its verification status, maps link, place id and coordinates.
func (v *Verifier) VerifyBatch(ctx context.Context, location string, items []domain.ScoutItem) []domain.ScoutItem {
	if !v.Enabled() || len(items) == 0 {
		return items
	}

	sem := make(chan struct{}, maxVerifyConcurrency)
	var wg sync.WaitGroup
	for _, item := range items {
		wg.Add(1)
		go func(item domain.ScoutItem) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			v.verifyOne(ctx, location, item)
		}(item)
	}
	wg.Wait()

	verified := make([]domain.ScoutItem, 0, len(items))
	removed := 0
	for _, item := range items {
		switch item.Status() {
		case domain.StatusClosedPermanently, domain.StatusClosedTemporarily:
			removed++
		default:
			verified = append(verified, item)
		}
	}
	if removed > 0 {
		log.Printf("places: removed %d unavailable location(s) from %d candidates", removed, len(items))
	}
	return verified
}

func (v *Verifier) verifyOne(ctx context.Context, location string, item domain.ScoutItem) {
	query := joinNonEmpty(item.Name(), item.Address(), location)

	result, err := v.search(ctx, query, verifyFields)
	if err != nil {
		log.Printf("places: verification error for %.60q: %v", query, err)
		item.SetVerification(domain.StatusUnverified, nil, nil, nil, nil)
		return
	}
	if len(result.Places) == 0 {
		item.SetVerification(domain.StatusUnverified, nil, nil, nil, nil)
		return
	}

	place := result.Places[0]
	status := place.BusinessStatus
	switch status {
	case domain.StatusOperational, domain.StatusClosedTemporarily, domain.StatusClosedPermanently:
	default:
		status = domain.StatusUnverified
	}

	var mapsURL, placeID *string
	if place.GoogleMapsURI != "" {
		mapsURL = &place.GoogleMapsURI
	}
	if place.ID != "" {
		placeID = &place.ID
	}
	item.SetVerification(status, mapsURL, placeID, place.Location.Latitude, place.Location.Longitude)
}

func (v *Verifier) search(ctx context.Context, query, fieldMask string) (*searchResponse, error) {
	body, err := json.Marshal(searchRequest{TextQuery: query, MaxResultCount: 1})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", v.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

var _ ports.PlaceVerifier = (*Verifier)(nil)
