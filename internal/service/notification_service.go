package service

import (
	"context"
	"fmt"

	"arrow-be/internal/pkg/logger"
	"arrow-be/internal/pkg/mailer"
	"arrow-be/pkg/events"
)

// NotificationService e-mails founders when an investor opens a conversation
// on one of their pitches.
type NotificationService struct {
	subscriber events.Subscriber
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewNotificationService(sub events.Subscriber, mail mailer.IEmailService, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		mailer:     mail,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, events.TypeInterestExpressed, "interest-notifier", s.HandleInterest); err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("NotificationService", "Listening for interest events", nil)
	return nil
}

// HandleInterest mails the founder once, on the action that created the conversation.
func (s *NotificationService) HandleInterest(ctx context.Context, event events.Event) error {
	if created, _ := event.Payload()["created"].(bool); !created {
		return nil
	}

	founder := events.StringField(event, "founder_email")
	if founder == "" {
		s.logger.Warn("NotificationService", "Interest event without founder email", map[string]interface{}{
			"conversation_id": events.StringField(event, "conversation_id"),
		})
		return nil
	}

	err := s.mailer.SendInterestNotice(founder, events.StringField(event, "investor_email"), events.StringField(event, "pitch_title"))
	if err != nil {
		return fmt.Errorf("interest notice to %s: %w", founder, err)
	}
	return nil
}
