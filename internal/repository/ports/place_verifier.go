package ports

import (
	"context"

	"github.com/tripmaster/trip-scout/internal/domain"
)

type PlaceVerifier interface {
	Enabled() bool
	Geocode(ctx context.Context, location string) (lat, lng float64, ok bool)
	// VerifyBatch annotates items in place and returns the survivors:
	// places reported closed are dropped, unresolvable ones pass through
	// marked unverified.
	VerifyBatch(ctx context.Context, location string, items []domain.ScoutItem) []domain.ScoutItem
}
