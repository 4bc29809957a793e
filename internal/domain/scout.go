package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Category identifies one scout: the key under which its items appear in
// responses, sessions and trip records.
type Category string

const (
	CategoryPhotos      Category = "photos"
	CategoryRestaurants Category = "restaurants"
	CategoryAttractions Category = "attractions"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryPhotos, CategoryRestaurants, CategoryAttractions:
		return true
	}
	return false
}

// Business status values reported by venue verification.
const (
	StatusOperational       = "OPERATIONAL"
	StatusClosedTemporarily = "CLOSED_TEMPORARILY"
	StatusClosedPermanently = "CLOSED_PERMANENTLY"
	StatusUnverified        = "UNVERIFIED"
)

// ScoutItem is one recommendation as returned by a scout. The schema differs
// per category (photo items carry subject/setup/light/pro_tip, restaurants
// cuisine/price/hours, attractions admission/duration/best_time), so items
// stay schemaless and flow through to the frontend unchanged. Underscore
// keys are server-attached verification metadata.
type ScoutItem map[string]any

func (i ScoutItem) Name() string    { return i.str("name") }
func (i ScoutItem) Address() string { return i.str("address") }
func (i ScoutItem) Status() string  { return i.str("_status") }

func (i ScoutItem) str(key string) string {
	s, _ := i[key].(string)
	return s
}

// Coordinates returns the verified lat/lng, or ok=false when the item was
// never verified.
func (i ScoutItem) Coordinates() (lat, lng float64, ok bool) {
	lat, okLat := toFloat(i["_lat"])
	lng, okLng := toFloat(i["_lng"])
	return lat, lng, okLat && okLng
}

func (i ScoutItem) SetVerification(status string, mapsURL, placeID *string, lat, lng *float64) {
	i["_status"] = status
	i["_maps_url"] = mapsURL
	i["_place_id"] = placeID
	if lat != nil {
		i["_lat"] = *lat
	}
	if lng != nil {
		i["_lng"] = *lng
	}
}

func (i ScoutItem) SetTravelTime(estimate string) {
	i["travel_time"] = estimate
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// ItemList stores a category's items as a JSON column.
type ItemList []ScoutItem

func (l ItemList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	buf, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

func (l *ItemList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("item list: unsupported scan source")
}

// ColorMap is the per-destination palette echoed to the frontend.
type ColorMap map[string]string

func (m ColorMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	buf, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

func (m *ColorMap) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	}
	return errors.New("color map: unsupported scan source")
}
