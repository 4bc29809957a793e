package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tripmaster/trip-scout/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, email, fullName, role string, passwordHash []byte) (*domain.StaffUser, error)
	UpsertGoogleUser(ctx context.Context, email string, fullName *string) (*domain.StaffUser, error)
	FindByEmail(ctx context.Context, email string) (*domain.StaffUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.StaffUser, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}
