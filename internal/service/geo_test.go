package service

import (
	"testing"

	"github.com/tripmaster/trip-scout/internal/domain"
)

func TestHaversineMetres(t *testing.T) {
	// Praça do Comércio to Miradouro da Senhora do Monte, roughly 1.2 km.
	got := haversineMetres(38.7075, -9.1364, 38.7189, -9.1329)
	if got < 1200 || got > 1350 {
		t.Fatalf("distance = %.0f m, want roughly 1.2-1.35 km", got)
	}
	if d := haversineMetres(38.7, -9.1, 38.7, -9.1); d != 0 {
		t.Fatalf("same point distance = %f", d)
	}
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		metres float64
		want   string
	}{
		{40, "~40 m · ~1 min walk"},
		{120, "~120 m · ~2 min walk"},
		{480, "~500 m · ~6 min walk"},
		// 1000/80 = 12.5 rounds half-to-even down to 12.
		{1000, "~1.0 km · ~12 min walk"},
		{2300, "~2.3 km · ~29 min walk"},
	}
	for _, tc := range cases {
		if got := formatDistance(tc.metres); got != tc.want {
			t.Fatalf("formatDistance(%v) = %q, want %q", tc.metres, got, tc.want)
		}
	}
}

func TestApplyDistances(t *testing.T) {
	verified := domain.ScoutItem{"name": "Verified", "travel_time": "10 min metro", "_lat": 38.7189, "_lng": -9.1329}
	unverified := domain.ScoutItem{"name": "Unverified", "travel_time": "10 min metro"}

	applyDistances([]domain.ScoutItem{verified, unverified}, 38.7075, -9.1364)

	got, _ := verified["travel_time"].(string)
	if got == "10 min metro" {
		t.Fatalf("verified item should get a computed estimate")
	}
	if unverified["travel_time"] != "10 min metro" {
		t.Fatalf("unverified item must keep the model estimate")
	}
}

func TestColorPalette(t *testing.T) {
	if p := colorPalette("Barcelona, Spain"); p["primary"] != "#c41e3a" {
		t.Fatalf("barcelona palette not selected: %v", p)
	}
	if p := colorPalette("Reykjavik"); p["primary"] != "#2c3e50" {
		t.Fatalf("unknown city should fall back to default: %v", p)
	}
}
