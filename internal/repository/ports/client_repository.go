package ports

import (
	"context"

	"github.com/tripmaster/trip-scout/internal/domain"
)

type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
	List(ctx context.Context, query string, limit, offset int) ([]domain.Client, error)
	SoftDelete(ctx context.Context, id int64) error
}
