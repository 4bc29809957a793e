package ports

import (
	"context"

	"github.com/tripmaster/trip-scout/internal/domain"
)

// ScoutQuery carries the sanitized request fields a scout prompt is built
// from. Optional pointers are omitted from the prompt when nil.
type ScoutQuery struct {
	Location      string
	Duration      int
	Count         int
	Budget        *string
	Distance      *string
	Preferences   *string
	Accommodation *string
	PrePlanned    *string
	Profile       *domain.ClientProfile

	// Replacement-only fields.
	Day      int
	MealType *string
	Exclude  []string
}

type ScoutClient interface {
	Recommend(ctx context.Context, category domain.Category, query ScoutQuery) ([]domain.ScoutItem, error)
	Replacement(ctx context.Context, category domain.Category, query ScoutQuery) (domain.ScoutItem, error)
}
