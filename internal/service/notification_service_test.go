package service

import (
	"context"
	"testing"
	"time"

	"arrow-be/internal/pkg/logger"
	"arrow-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationMailsFounderOnFirstInterest(t *testing.T) {
	bus := events.NewChannelBus(nil)
	defer bus.Close()
	mailer := newFakeMailer()

	svc := NewNotificationService(bus, mailer, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Start(ctx))

	publish := func(created bool) {
		require.NoError(t, bus.Publish(ctx, events.New(events.TypeInterestExpressed, map[string]interface{}{
			"founder_email":  "founder@example.com",
			"investor_email": "investor@example.com",
			"pitch_title":    "AI Tutor",
			"created":        created,
		})))
	}

	publish(false)
	publish(true)

	select {
	case notice := <-mailer.notices:
		assert.Equal(t, "founder@example.com|investor@example.com|AI Tutor", notice)
	case <-time.After(2 * time.Second):
		t.Fatal("no interest notice sent")
	}

	select {
	case notice := <-mailer.notices:
		t.Fatalf("repeat interest should not mail: %s", notice)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleInterestWithoutFounderEmail(t *testing.T) {
	mailer := newFakeMailer()
	svc := NewNotificationService(nil, mailer, logger.NewNopLogger())

	err := svc.HandleInterest(context.Background(), events.New(events.TypeInterestExpressed, map[string]interface{}{"created": true}))
	assert.NoError(t, err)
	assert.Empty(t, mailer.notices)
}
