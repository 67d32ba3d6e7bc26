package service

import (
	"context"
	"errors"
	"fmt"

	"arrow-be/internal/entity"
	"arrow-be/internal/pkg/logger"
	"arrow-be/internal/repository/contract"
	"arrow-be/internal/repository/unitofwork"
	"arrow-be/internal/session"
	"arrow-be/pkg/events"

	"github.com/google/uuid"
)

var (
	ErrPitchMissingOwner = entity.ErrPitchMissingOwner
	ErrSelfInterest      = errors.New("you cannot express interest in your own pitch")
)

type InterestResult struct {
	Conversation *entity.Conversation
	Created      bool
}

type IInterestService interface {
	// ExpressInterest resolves the one conversation between the pitch owner and
	// the viewer, creating it on first use, then bumps the pitch's interest
	// counter on a best-effort basis.
	ExpressInterest(ctx context.Context, id *session.Identity, pitchId uuid.UUID) (*InterestResult, error)
}

type interestService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewInterestService(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger) IInterestService {
	return &interestService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *interestService) ExpressInterest(ctx context.Context, id *session.Identity, pitchId uuid.UUID) (*InterestResult, error) {
	ctx, span := tracer.Start(ctx, "InterestService.ExpressInterest")
	defer span.End()

	if err := session.Require(id); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	pitch, err := uow.PitchRepository().FindByID(ctx, pitchId)
	if err != nil {
		return nil, err
	}
	if pitch == nil {
		return nil, ErrPitchNotFound
	}
	if !pitch.HasOwner() {
		return nil, fmt.Errorf("%w (pitch %s)", ErrPitchMissingOwner, pitch.Id)
	}
	if pitch.OwnerId == id.UserId {
		return nil, ErrSelfInterest
	}

	result, err := s.resolveConversation(ctx, uow.ConversationRepository(), pitch, id)
	if err != nil {
		return nil, err
	}

	s.bumpInterest(ctx, uow.PitchRepository(), pitch.Id)

	event := events.New(events.TypeInterestExpressed, map[string]interface{}{
		"conversation_id": result.Conversation.Id.String(),
		"pitch_id":        pitch.Id.String(),
		"pitch_title":     pitch.Title,
		"founder_id":      pitch.OwnerId.String(),
		"founder_email":   pitch.OwnerEmail,
		"investor_id":     id.UserId.String(),
		"investor_email":  id.Email,
		"created":         result.Created,
	})
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("INTEREST", "Event not published", map[string]interface{}{"error": err.Error()})
	}

	return result, nil
}

func (s *interestService) resolveConversation(ctx context.Context, repo contract.ConversationRepository, pitch *entity.Pitch, id *session.Identity) (*InterestResult, error) {
	convId := entity.ConversationID(pitch.Id, id.UserId)

	existing, err := repo.FindByID(ctx, convId)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		conv, err := entity.NewConversation(pitch, id.UserId, id.Email)
		if err != nil {
			return nil, err
		}
		err = repo.Create(ctx, conv)
		if err == nil {
			return &InterestResult{Conversation: conv, Created: true}, nil
		}
		if !errors.Is(err, contract.ErrDuplicateKey) {
			return nil, err
		}

		// lost the race with a concurrent first click; the winner's record stands
		if existing, err = repo.FindByID(ctx, convId); err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("conversation %s vanished after duplicate create", convId)
		}
	}

	if err := repo.Touch(ctx, existing); err != nil {
		return nil, err
	}
	return &InterestResult{Conversation: existing, Created: false}, nil
}

// bumpInterest is a plain read then write of counter+1. Concurrent bumps may
// lose updates. Failures are logged and swallowed.
func (s *interestService) bumpInterest(ctx context.Context, repo contract.PitchRepository, pitchId uuid.UUID) {
	warn := func(err error) {
		s.logger.Warn("INTEREST", "Interest counter not incremented", map[string]interface{}{
			"pitch_id": pitchId.String(),
			"error":    err.Error(),
		})
	}

	pitch, err := repo.FindByID(ctx, pitchId)
	if err != nil {
		warn(err)
		return
	}
	if pitch == nil {
		warn(ErrPitchNotFound)
		return
	}
	if err := repo.SetInterestCount(ctx, pitchId, pitch.InterestCount+1); err != nil {
		warn(err)
	}
}
