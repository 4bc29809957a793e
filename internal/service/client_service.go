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
	ErrClientNotFound   = errors.New("client not found")
	ErrClientNameNeeded = errors.New("client name is required")
)

type ClientService struct {
	clients ports.ClientRepository
	trips   ports.TripRepository
}

// ClientInput carries the writable fields of a client record. Optional
// fields arrive nil when absent and are stored as NULL.
type ClientInput struct {
	Name                string
	Email               *string
	Phone               *string
	Company             *string
	HomeCity            *string
	PreferredBudget     *string
	TravelStyle         *string
	DietaryRequirements *string
	Notes               *string
	Tags                *string
}

func NewClientService(clientRepo ports.ClientRepository, tripRepo ports.TripRepository) *ClientService {
	return &ClientService{clients: clientRepo, trips: tripRepo}
}

func (s *ClientService) Create(ctx context.Context, createdBy uuid.UUID, input ClientInput) (*domain.Client, error) {
	client, err := clientFromInput(input)
	if err != nil {
		return nil, err
	}
	client.CreatedByID = &createdBy
	return s.clients.Create(ctx, client)
}

func (s *ClientService) Update(ctx context.Context, id int64, input ClientInput) (*domain.Client, error) {
	client, err := clientFromInput(input)
	if err != nil {
		return nil, err
	}
	client.ID = id
	updated, err := s.clients.Update(ctx, client)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *ClientService) Get(ctx context.Context, id int64) (*domain.Client, error) {
	client, err := s.clients.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

// GetWithTrips returns the client plus every trip generated for them,
// newest first.
func (s *ClientService) GetWithTrips(ctx context.Context, id int64) (*domain.Client, []domain.Trip, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	trips, err := s.trips.ListByClient(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return client, trips, nil
}

func (s *ClientService) List(ctx context.Context, search string, limit, offset int) ([]domain.Client, error) {
	limit, offset = normalizePagination(limit, offset)
	return s.clients.List(ctx, util.SanitizeLine(search, util.MaxNameLength), limit, offset)
}

func (s *ClientService) Delete(ctx context.Context, id int64) error {
	if err := s.clients.SoftDelete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrClientNotFound
		}
		return err
	}
	return nil
}

func clientFromInput(input ClientInput) (*domain.Client, error) {
	name := util.SanitizeLine(input.Name, util.MaxNameLength)
	if name == "" {
		return nil, ErrClientNameNeeded
	}
	return &domain.Client{
		Name:                name,
		Email:               sanitizeOpt(input.Email, util.MaxFieldShort),
		Phone:               sanitizeOpt(input.Phone, util.MaxFieldShort),
		Company:             sanitizeOpt(input.Company, util.MaxFieldShort),
		HomeCity:            sanitizeOpt(input.HomeCity, util.MaxFieldShort),
		PreferredBudget:     sanitizeOpt(input.PreferredBudget, util.MaxFieldShort),
		TravelStyle:         sanitizeOpt(input.TravelStyle, util.MaxFieldShort),
		DietaryRequirements: sanitizeOpt(input.DietaryRequirements, util.MaxFieldMedium),
		Notes:               sanitizeOptMultiline(input.Notes, util.MaxFieldMedium),
		Tags:                sanitizeOpt(input.Tags, util.MaxFieldShort),
	}, nil
}

func sanitizeOpt(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	s := util.SanitizeLine(*value, maxLen)
	if s == "" {
		return nil
	}
	return &s
}

func sanitizeOptMultiline(value *string, maxLen int) *string {
	if value == nil {
		return nil
	}
	s := util.SanitizeMultiline(*value, maxLen)
	if s == "" {
		return nil
	}
	return &s
}

func normalizePagination(limit, offset int) (int, int) {
	const (
		defaultLimit = 20
		maxLimit     = 100
	)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
