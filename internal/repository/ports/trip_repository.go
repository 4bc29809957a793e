package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/tripmaster/trip-scout/internal/domain"
)

type TripRepository interface {
	Create(ctx context.Context, trip *domain.Trip) (*domain.Trip, error)
	Update(ctx context.Context, trip *domain.Trip) (*domain.Trip, error)
	FindByID(ctx context.Context, id int64) (*domain.Trip, error)
	FindBySessionID(ctx context.Context, sessionID string) (*domain.Trip, error)
	ListByUser(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]domain.Trip, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.Trip, error)
	SoftDelete(ctx context.Context, id int64) error
}
