package service

import (
	"context"
	"errors"
	"strings"

	"arrow-be/internal/directory"
	"arrow-be/internal/dto"
	"arrow-be/internal/entity"
	"arrow-be/internal/mapper"
	"arrow-be/internal/pkg/logger"
	"arrow-be/internal/repository/memory"
	"arrow-be/internal/repository/unitofwork"
	"arrow-be/internal/session"
	"arrow-be/pkg/events"

	"github.com/google/uuid"
)

var ErrPitchNotFound = errors.New("pitch not found")

var ErrInvalidRole = errors.New("role must be founder or investor")

type IPitchService interface {
	Create(ctx context.Context, id *session.Identity, req *dto.CreatePitchRequest) (*dto.PitchResponse, error)
	// GetAll loads every pitch newest first and keeps it as the viewer's snapshot.
	GetAll(ctx context.Context, id *session.Identity) ([]dto.PitchResponse, error)
	// Search filters the viewer's snapshot, loading it first if there is none.
	Search(ctx context.Context, id *session.Identity, query string) ([]dto.PitchResponse, error)
	Show(ctx context.Context, pitchId uuid.UUID) (*dto.PitchResponse, error)
	Stats(ctx context.Context) (*dto.PitchStatsResponse, error)
	// Load is the directory loader.
	Load(ctx context.Context) ([]*entity.Pitch, error)
}

type pitchService struct {
	uowFactory unitofwork.RepositoryFactory
	snapshots  *memory.PitchSnapshotRepository
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewPitchService(uowFactory unitofwork.RepositoryFactory, snapshots *memory.PitchSnapshotRepository, publisher events.Publisher, log logger.ILogger) IPitchService {
	return &pitchService{
		uowFactory: uowFactory,
		snapshots:  snapshots,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *pitchService) Create(ctx context.Context, id *session.Identity, req *dto.CreatePitchRequest) (*dto.PitchResponse, error) {
	if err := session.Require(id); err != nil {
		return nil, err
	}

	founder := strings.TrimSpace(req.Founder)
	if founder == "" {
		founder = id.Email
	}

	pitch := &entity.Pitch{
		Id:         uuid.New(),
		Title:      strings.TrimSpace(req.Title),
		Founder:    founder,
		Sector:     strings.TrimSpace(req.Sector),
		Location:   strings.TrimSpace(req.Location),
		Summary:    strings.TrimSpace(req.Summary),
		Equity:     strings.TrimSpace(string(req.Equity)),
		VideoURL:   strings.TrimSpace(req.VideoURL),
		OwnerId:    id.UserId,
		OwnerEmail: id.Email,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PitchRepository().Create(ctx, pitch); err != nil {
		return nil, err
	}
	s.snapshots.Delete(id.UserId)

	s.publish(ctx, events.New(events.TypePitchCreated, map[string]interface{}{
		"pitch_id": pitch.Id.String(),
		"title":    pitch.Title,
		"owner_id": id.UserId.String(),
	}))

	res := mapper.PitchToResponse(pitch)
	return &res, nil
}

func (s *pitchService) Load(ctx context.Context) ([]*entity.Pitch, error) {
	return s.uowFactory.NewUnitOfWork(ctx).PitchRepository().FindAll(ctx)
}

func (s *pitchService) GetAll(ctx context.Context, id *session.Identity) ([]dto.PitchResponse, error) {
	if err := session.Require(id); err != nil {
		return nil, err
	}
	pitches, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.snapshots.Save(id.UserId, pitches)
	return mapper.PitchesToResponse(pitches), nil
}

func (s *pitchService) Search(ctx context.Context, id *session.Identity, query string) ([]dto.PitchResponse, error) {
	if err := session.Require(id); err != nil {
		return nil, err
	}
	pitches, ok := s.snapshots.Get(id.UserId)
	if !ok {
		var err error
		if pitches, err = s.Load(ctx); err != nil {
			return nil, err
		}
		s.snapshots.Save(id.UserId, pitches)
	}
	return mapper.PitchesToResponse(directory.Filter(pitches, query)), nil
}

func (s *pitchService) Show(ctx context.Context, pitchId uuid.UUID) (*dto.PitchResponse, error) {
	pitch, err := s.uowFactory.NewUnitOfWork(ctx).PitchRepository().FindByID(ctx, pitchId)
	if err != nil {
		return nil, err
	}
	if pitch == nil {
		return nil, ErrPitchNotFound
	}
	res := mapper.PitchToResponse(pitch)
	return &res, nil
}

func (s *pitchService) Stats(ctx context.Context) (*dto.PitchStatsResponse, error) {
	stats, err := s.uowFactory.NewUnitOfWork(ctx).PitchRepository().Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.PitchStatsResponse{PitchCount: stats.PitchCount, LeadCount: stats.LeadCount}, nil
}

func (s *pitchService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("PITCH", "Event not published", map[string]interface{}{"type": event.EventType(), "error": err.Error()})
	}
}
