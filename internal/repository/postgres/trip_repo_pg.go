package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
)

type TripRepository struct {
	db *sqlx.DB
}

func NewTripRepo(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

const tripColumns = `id, client_id, created_by_id, title, status, is_deleted, created_at, updated_at,
		location, duration, budget, distance,
		include_photos, include_dining, include_attractions,
		photos_per_day, restaurants_per_day, attractions_per_day,
		photo_interests, cuisines, attraction_cats, accommodation,
		raw_photos, raw_restaurants, raw_attractions,
		approved_photo_indices, approved_restaurant_indices, approved_attraction_indices,
		colors, session_id`

func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) (*domain.Trip, error) {
	const query = `
		INSERT INTO trip (
			client_id, created_by_id, title, status,
			location, duration, budget, distance,
			include_photos, include_dining, include_attractions,
			photos_per_day, restaurants_per_day, attractions_per_day,
			photo_interests, cuisines, attraction_cats, accommodation,
			raw_photos, raw_restaurants, raw_attractions,
			approved_photo_indices, approved_restaurant_indices, approved_attraction_indices,
			colors, session_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING ` + tripColumns + `
	`
	var created domain.Trip
	err := r.db.GetContext(ctx, &created, query,
		trip.ClientID, trip.CreatedByID, trip.Title, trip.Status,
		trip.Location, trip.Duration, trip.Budget, trip.Distance,
		trip.IncludePhotos, trip.IncludeDining, trip.IncludeAttractions,
		trip.PhotosPerDay, trip.RestaurantsPerDay, trip.AttractionsPerDay,
		trip.PhotoInterests, trip.Cuisines, trip.AttractionCats, trip.Accommodation,
		trip.RawPhotos, trip.RawRestaurants, trip.RawAttractions,
		trip.ApprovedPhotoIndices, trip.ApprovedRestaurantIndices, trip.ApprovedAttractionIndices,
		trip.Colors, trip.SessionID)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) (*domain.Trip, error) {
	const query = `
		UPDATE trip
		SET client_id = $2,
		    title = $3,
		    status = $4,
		    location = $5,
		    duration = $6,
		    budget = $7,
		    distance = $8,
		    include_photos = $9,
		    include_dining = $10,
		    include_attractions = $11,
		    photos_per_day = $12,
		    restaurants_per_day = $13,
		    attractions_per_day = $14,
		    photo_interests = $15,
		    cuisines = $16,
		    attraction_cats = $17,
		    accommodation = $18,
		    raw_photos = $19,
		    raw_restaurants = $20,
		    raw_attractions = $21,
		    approved_photo_indices = $22,
		    approved_restaurant_indices = $23,
		    approved_attraction_indices = $24,
		    colors = $25,
		    session_id = $26,
		    updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
		RETURNING ` + tripColumns + `
	`
	var updated domain.Trip
	err := r.db.GetContext(ctx, &updated, query,
		trip.ID, trip.ClientID, trip.Title, trip.Status,
		trip.Location, trip.Duration, trip.Budget, trip.Distance,
		trip.IncludePhotos, trip.IncludeDining, trip.IncludeAttractions,
		trip.PhotosPerDay, trip.RestaurantsPerDay, trip.AttractionsPerDay,
		trip.PhotoInterests, trip.Cuisines, trip.AttractionCats, trip.Accommodation,
		trip.RawPhotos, trip.RawRestaurants, trip.RawAttractions,
		trip.ApprovedPhotoIndices, trip.ApprovedRestaurantIndices, trip.ApprovedAttractionIndices,
		trip.Colors, trip.SessionID)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *TripRepository) FindByID(ctx context.Context, id int64) (*domain.Trip, error) {
	const query = `
		SELECT ` + tripColumns + `
		FROM trip
		WHERE id = $1 AND is_deleted = FALSE
	`
	var trip domain.Trip
	if err := r.db.GetContext(ctx, &trip, query, id); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *TripRepository) FindBySessionID(ctx context.Context, sessionID string) (*domain.Trip, error) {
	const query = `
		SELECT ` + tripColumns + `
		FROM trip
		WHERE session_id = $1 AND is_deleted = FALSE
	`
	var trip domain.Trip
	if err := r.db.GetContext(ctx, &trip, query, sessionID); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *TripRepository) ListByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]domain.Trip, error) {
	const query = `
		SELECT ` + tripColumns + `
		FROM trip
		WHERE created_by_id = $1
		  AND is_deleted = FALSE
		  AND ($2 = '' OR status = $2)
		ORDER BY updated_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryxContext(ctx, query, userID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0)
	for rows.Next() {
		var trip domain.Trip
		if err := rows.StructScan(&trip); err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *TripRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.Trip, error) {
	const query = `
		SELECT ` + tripColumns + `
		FROM trip
		WHERE client_id = $1 AND is_deleted = FALSE
		ORDER BY updated_at DESC, id DESC
	`
	rows, err := r.db.QueryxContext(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]domain.Trip, 0)
	for rows.Next() {
		var trip domain.Trip
		if err := rows.StructScan(&trip); err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *TripRepository) SoftDelete(ctx context.Context, id int64) error {
	const query = `
		UPDATE trip
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_deleted = FALSE
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

var _ ports.TripRepository = (*TripRepository)(nil)
