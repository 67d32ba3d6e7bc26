package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"arrow-be/internal/entity"
	"arrow-be/internal/model"
	"arrow-be/internal/repository/contract"
	"arrow-be/internal/repository/unitofwork"
	"arrow-be/pkg/database"
	"arrow-be/pkg/livequery"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping postgres container test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "arrow",
			"POSTGRES_PASSWORD": "arrow",
			"POSTGRES_DB":       "arrow",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Skipping postgres container test: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("host=%s port=%s user=arrow password=arrow dbname=arrow sslmode=disable", host, port.Port())
}

func TestGormRepositories(t *testing.T) {
	dsn := startPostgres(t)
	ctx := context.Background()

	feed := livequery.NewGoChannelFeed(nil)
	t.Cleanup(func() { feed.Close() })
	db, err := database.NewGormDBFromDSN(dsn, livequery.NewPlugin(feed, nil))
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.PasswordResetToken{}, &model.Pitch{}, &model.Conversation{}, &model.Message{}))

	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	founder := &entity.User{Email: "founder@example.com", PasswordHash: "x", Role: entity.UserRoleFounder}
	investor := &entity.User{Email: "investor@example.com", PasswordHash: "x", Role: entity.UserRoleInvestor}
	require.NoError(t, uow.UserRepository().Create(ctx, founder))
	require.NoError(t, uow.UserRepository().Create(ctx, investor))
	assert.ErrorIs(t, uow.UserRepository().Create(ctx, &entity.User{Email: "founder@example.com", PasswordHash: "x"}), contract.ErrDuplicateKey)

	pitch := &entity.Pitch{Title: "AI Tutor", OwnerId: founder.Id, OwnerEmail: founder.Email}
	require.NoError(t, uow.PitchRepository().Create(ctx, pitch))
	require.NotEqual(t, uuid.Nil, pitch.Id)

	t.Run("pitches newest first", func(t *testing.T) {
		later := &entity.Pitch{Title: "F"}
		require.NoError(t, uow.PitchRepository().Create(ctx, later))

		all, err := uow.PitchRepository().FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "F", all[0].Title)
		assert.False(t, all[0].HasOwner())
	})

	conv, err := entity.NewConversation(pitch, investor.Id, investor.Email)
	require.NoError(t, err)
	require.NoError(t, uow.ConversationRepository().Create(ctx, conv))

	t.Run("one conversation per pair", func(t *testing.T) {
		again, err := entity.NewConversation(pitch, investor.Id, investor.Email)
		require.NoError(t, err)
		assert.ErrorIs(t, uow.ConversationRepository().Create(ctx, again), contract.ErrDuplicateKey)
	})

	t.Run("updates need an existing conversation", func(t *testing.T) {
		ghost, err := entity.NewConversation(pitch, uuid.New(), "ghost@example.com")
		require.NoError(t, err)
		assert.ErrorIs(t, uow.ConversationRepository().Touch(ctx, ghost), contract.ErrNotFound)
		assert.ErrorIs(t, uow.ConversationRepository().UpdateSummary(ctx, ghost, "hi"), contract.ErrNotFound)
	})

	t.Run("participant lookup", func(t *testing.T) {
		for _, userId := range []uuid.UUID{founder.Id, investor.Id} {
			convs, err := uow.ConversationRepository().FindByParticipant(ctx, userId)
			require.NoError(t, err)
			require.Len(t, convs, 1)
			assert.Equal(t, conv.Id, convs[0].Id)
		}
		none, err := uow.ConversationRepository().FindByParticipant(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("message log order and summary", func(t *testing.T) {
		texts := []string{"one", "two", "three"}
		for _, text := range texts {
			msg := &entity.Message{ConversationId: conv.Id, Text: text, SenderId: investor.Id, SenderEmail: investor.Email}
			require.NoError(t, uow.MessageRepository().Create(ctx, msg))
			assert.NotZero(t, msg.Seq)
			require.NoError(t, uow.ConversationRepository().UpdateSummary(ctx, conv, text))
		}

		log, err := uow.MessageRepository().FindByConversation(ctx, conv.Id)
		require.NoError(t, err)
		require.Len(t, log, 3)
		for i, msg := range log {
			assert.Equal(t, texts[i], msg.Text)
		}

		stored, err := uow.ConversationRepository().FindByID(ctx, conv.Id)
		require.NoError(t, err)
		assert.Equal(t, "three", stored.LastMessage)
		assert.False(t, stored.LastActivityAt.Before(stored.CreatedAt))
	})

	t.Run("interest counter", func(t *testing.T) {
		require.NoError(t, uow.PitchRepository().SetInterestCount(ctx, pitch.Id, 3))
		stats, err := uow.PitchRepository().Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stats.PitchCount)
		assert.Equal(t, int64(3), stats.LeadCount)
	})
}
