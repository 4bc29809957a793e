package service

import (
	"fmt"
	"math"

	"github.com/tripmaster/trip-scout/internal/domain"
)

const (
	earthRadiusM = 6_371_000

	// 80 m/min is a comfortable urban walking pace. Straight-line distances
	// understate real routes, so the estimate is a lower bound and every
	// figure is prefixed with '~'.
	walkMetresPerMinute = 80
)

// haversineMetres returns the great-circle distance between two points.
func haversineMetres(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusM * math.Asin(math.Sqrt(a))
}

// formatDistance renders metres as a human-readable estimate. Rounding is
// half-to-even throughout so repeated runs over the same coordinates always
// produce the same label.
func formatDistance(metres float64) string {
	walkMin := int(math.RoundToEven(metres / walkMetresPerMinute))
	if walkMin < 1 {
		walkMin = 1
	}
	switch {
	case metres < 150:
		return fmt.Sprintf("~%d m · ~%d min walk", int(math.RoundToEven(metres/10))*10, walkMin)
	case metres < 1000:
		return fmt.Sprintf("~%d m · ~%d min walk", int(math.RoundToEven(metres/50))*50, walkMin)
	default:
		return fmt.Sprintf("~%.1f km · ~%d min walk", metres/1000, walkMin)
	}
}

// applyDistances overwrites travel_time on every item with verified
// coordinates. Unverified items keep the model's own text estimate.
func applyDistances(items []domain.ScoutItem, accLat, accLng float64) {
	for _, item := range items {
		if lat, lng, ok := item.Coordinates(); ok {
			item.SetTravelTime(formatDistance(haversineMetres(accLat, accLng, lat, lng)))
		}
	}
}
