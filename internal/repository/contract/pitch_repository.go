package contract

import (
	"context"

	"arrow-be/internal/entity"

	"github.com/google/uuid"
)

type PitchRepository interface {
	Create(ctx context.Context, pitch *entity.Pitch) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Pitch, error)
	// FindAll returns every pitch, newest first.
	FindAll(ctx context.Context) ([]*entity.Pitch, error)
	FindByTitle(ctx context.Context, title string) (*entity.Pitch, error)
	// SetInterestCount overwrites the counter. Callers doing read-modify-write accept lost updates.
	SetInterestCount(ctx context.Context, id uuid.UUID, count int) error
	Stats(ctx context.Context) (*entity.PitchStats, error)
}
