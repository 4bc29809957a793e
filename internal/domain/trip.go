package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	TripStatusDraft     = "draft"
	TripStatusFinalized = "finalized"
)

// Trip stores the form parameters and raw scout output of one generation so
// a guide can be reloaded, revised and finalized later.
type Trip struct {
	ID          int64      `db:"id" json:"id"`
	ClientID    *int64     `db:"client_id" json:"client_id,omitempty"`
	CreatedByID *uuid.UUID `db:"created_by_id" json:"created_by_id,omitempty"`

	Title     string    `db:"title" json:"title"`
	Status    string    `db:"status" json:"status"`
	IsDeleted bool      `db:"is_deleted" json:"is_deleted"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Location           string  `db:"location" json:"location"`
	Duration           int     `db:"duration" json:"duration"`
	Budget             *string `db:"budget" json:"budget,omitempty"`
	Distance           *string `db:"distance" json:"distance,omitempty"`
	IncludePhotos      bool    `db:"include_photos" json:"include_photos"`
	IncludeDining      bool    `db:"include_dining" json:"include_dining"`
	IncludeAttractions bool    `db:"include_attractions" json:"include_attractions"`
	PhotosPerDay       int     `db:"photos_per_day" json:"photos_per_day"`
	RestaurantsPerDay  int     `db:"restaurants_per_day" json:"restaurants_per_day"`
	AttractionsPerDay  int     `db:"attractions_per_day" json:"attractions_per_day"`
	PhotoInterests     *string `db:"photo_interests" json:"photo_interests,omitempty"`
	Cuisines           *string `db:"cuisines" json:"cuisines,omitempty"`
	AttractionCats     *string `db:"attraction_cats" json:"attraction_cats,omitempty"`
	Accommodation      *string `db:"accommodation" json:"accommodation,omitempty"`

	RawPhotos      ItemList `db:"raw_photos" json:"raw_photos"`
	RawRestaurants ItemList `db:"raw_restaurants" json:"raw_restaurants"`
	RawAttractions ItemList `db:"raw_attractions" json:"raw_attractions"`

	ApprovedPhotoIndices      pq.Int64Array `db:"approved_photo_indices" json:"approved_photo_indices,omitempty"`
	ApprovedRestaurantIndices pq.Int64Array `db:"approved_restaurant_indices" json:"approved_restaurant_indices,omitempty"`
	ApprovedAttractionIndices pq.Int64Array `db:"approved_attraction_indices" json:"approved_attraction_indices,omitempty"`

	Colors    ColorMap `db:"colors" json:"colors,omitempty"`
	SessionID *string  `db:"session_id" json:"session_id,omitempty"`
}

// RawItems returns the stored list for one category.
func (t *Trip) RawItems(category Category) ItemList {
	switch category {
	case CategoryPhotos:
		return t.RawPhotos
	case CategoryRestaurants:
		return t.RawRestaurants
	case CategoryAttractions:
		return t.RawAttractions
	}
	return nil
}

// SetRawItems replaces the stored list for one category.
func (t *Trip) SetRawItems(category Category, items ItemList) {
	switch category {
	case CategoryPhotos:
		t.RawPhotos = items
	case CategoryRestaurants:
		t.RawRestaurants = items
	case CategoryAttractions:
		t.RawAttractions = items
	}
}
