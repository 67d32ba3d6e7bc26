package service

import (
	"context"

	"arrow-be/internal/dto"
	"arrow-be/internal/entity"
	"arrow-be/internal/mapper"
)

// DemoStore is the seed and wipe surface of the offline demo store.
type DemoStore interface {
	Seed(ctx context.Context) ([]*entity.Pitch, error)
	Wipe(ctx context.Context) error
}

type IDemoService interface {
	Seed(ctx context.Context) ([]dto.PitchResponse, error)
	Wipe(ctx context.Context) error
}

type demoService struct {
	store DemoStore
}

func NewDemoService(store DemoStore) IDemoService {
	return &demoService{store: store}
}

func (s *demoService) Seed(ctx context.Context) ([]dto.PitchResponse, error) {
	pitches, err := s.store.Seed(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.PitchesToResponse(pitches), nil
}

func (s *demoService) Wipe(ctx context.Context) error {
	return s.store.Wipe(ctx)
}
