package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
	"github.com/tripmaster/trip-scout/internal/util"
)

var (
	ErrTripNotFound      = errors.New("trip not found")
	ErrInvalidTripStatus = errors.New("status must be draft or finalized")
	ErrTripTitleNeeded   = errors.New("trip title cannot be empty")
)

// TripUpdateInput carries the editable trip fields; nil leaves a field as is.
type TripUpdateInput struct {
	Title    *string
	Status   *string
	ClientID *int64
}

type TripService struct {
	trips ports.TripRepository
}

func NewTripService(tripRepo ports.TripRepository) *TripService {
	return &TripService{trips: tripRepo}
}

func (s *TripService) Get(ctx context.Context, id int64) (*domain.Trip, error) {
	trip, err := s.trips.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

// List returns the caller's trips, optionally filtered to one status.
func (s *TripService) List(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]domain.Trip, error) {
	if status != "" && status != domain.TripStatusDraft && status != domain.TripStatusFinalized {
		status = ""
	}
	limit, offset = normalizePagination(limit, offset)
	return s.trips.ListByUser(ctx, userID, status, limit, offset)
}

// ListForClient returns every trip generated for one client, newest first.
func (s *TripService) ListForClient(ctx context.Context, clientID int64) ([]domain.Trip, error) {
	return s.trips.ListByClient(ctx, clientID)
}

// Update edits the bookkeeping fields of a trip. The raw scout lists are
// only ever touched through the scout endpoints.
func (s *TripService) Update(ctx context.Context, id int64, input TripUpdateInput) (*domain.Trip, error) {
	trip, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		title := util.SanitizeLine(*input.Title, util.MaxNameLength)
		if title == "" {
			return nil, ErrTripTitleNeeded
		}
		trip.Title = title
	}
	if input.Status != nil {
		if *input.Status != domain.TripStatusDraft && *input.Status != domain.TripStatusFinalized {
			return nil, ErrInvalidTripStatus
		}
		trip.Status = *input.Status
	}
	if input.ClientID != nil {
		trip.ClientID = input.ClientID
	}
	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *TripService) Delete(ctx context.Context, id int64) error {
	if err := s.trips.SoftDelete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrTripNotFound
		}
		return err
	}
	return nil
}
