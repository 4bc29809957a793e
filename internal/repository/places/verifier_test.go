package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tripmaster/trip-scout/internal/domain"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) *Verifier {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	v := NewVerifier("test-key", 5*time.Second)
	v.apiURL = server.URL
	return v
}

func placeJSON(status string, lat, lng float64) string {
	return fmt.Sprintf(`{"places": [{"id": "pid-1", "businessStatus": %q, "googleMapsUri": "https://maps.google.com/?cid=1", "location": {"latitude": %f, "longitude": %f}}]}`, status, lat, lng)
}

func TestVerifyBatchDropsClosedPlaces(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Goog-Api-Key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		switch {
		case req.TextQuery == "Gone Bar, Rua X, Lisbon":
			fmt.Fprint(w, placeJSON(domain.StatusClosedPermanently, 38.7, -9.1))
		case req.TextQuery == "Shut Cafe, Rua Y, Lisbon":
			fmt.Fprint(w, placeJSON(domain.StatusClosedTemporarily, 38.7, -9.1))
		default:
			fmt.Fprint(w, placeJSON(domain.StatusOperational, 38.71, -9.14))
		}
	})

	items := []domain.ScoutItem{
		{"name": "Open Spot", "address": "Rua Z"},
		{"name": "Gone Bar", "address": "Rua X"},
		{"name": "Shut Cafe", "address": "Rua Y"},
	}
	verified := v.VerifyBatch(context.Background(), "Lisbon", items)

	if len(verified) != 1 {
		t.Fatalf("got %d survivors, want 1", len(verified))
	}
	if verified[0].Name() != "Open Spot" {
		t.Fatalf("survivor = %q", verified[0].Name())
	}
	if verified[0].Status() != domain.StatusOperational {
		t.Fatalf("status = %q", verified[0].Status())
	}
	if lat, lng, ok := verified[0].Coordinates(); !ok || lat != 38.71 || lng != -9.14 {
		t.Fatalf("coordinates = (%v, %v, %v)", lat, lng, ok)
	}
}

func TestVerifyBatchUnresolvedStaysUnverified(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"places": []}`)
	})

	items := []domain.ScoutItem{{"name": "Mystery Place", "address": "Nowhere 1"}}
	verified := v.VerifyBatch(context.Background(), "Lisbon", items)

	if len(verified) != 1 {
		t.Fatalf("unresolved item should survive, got %d", len(verified))
	}
	if verified[0].Status() != domain.StatusUnverified {
		t.Fatalf("status = %q", verified[0].Status())
	}
}

func TestVerifyBatchDisabledPassesThrough(t *testing.T) {
	v := NewVerifier("", time.Second)
	if v.Enabled() {
		t.Fatalf("verifier without key must report disabled")
	}
	items := []domain.ScoutItem{{"name": "Anything"}}
	verified := v.VerifyBatch(context.Background(), "Lisbon", items)
	if len(verified) != 1 || verified[0].Status() != "" {
		t.Fatalf("disabled verifier must not touch items")
	}
}

func TestGeocode(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Goog-FieldMask"); got != geocodeFields {
			t.Errorf("field mask = %q", got)
		}
		fmt.Fprint(w, `{"places": [{"location": {"latitude": 41.3851, "longitude": 2.1734}}]}`)
	})

	lat, lng, ok := v.Geocode(context.Background(), "Hotel Arts, Barcelona")
	if !ok {
		t.Fatalf("expected geocode to succeed")
	}
	if lat != 41.3851 || lng != 2.1734 {
		t.Fatalf("got (%f, %f)", lat, lng)
	}
}

func TestGeocodeNoResult(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"places": []}`)
	})
	if _, _, ok := v.Geocode(context.Background(), "garbage address"); ok {
		t.Fatalf("expected geocode miss")
	}
}
