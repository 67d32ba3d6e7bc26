package service

import (
	"context"
	"testing"

	"arrow-be/internal/dto"
	"arrow-be/internal/session"
	"arrow-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePitch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.signUp(t, "founder@example.com")

	res, err := f.pitches.Create(ctx, founder, &dto.CreatePitchRequest{Title: "  Solar Grid ", Equity: "12"})
	require.NoError(t, err)
	assert.Equal(t, "Solar Grid", res.Title)
	assert.Equal(t, "founder@example.com", res.Founder)
	require.NotNil(t, res.OwnerId)
	assert.Equal(t, founder.UserId, *res.OwnerId)
	assert.Len(t, f.publisher.ofType(events.TypePitchCreated), 1)

	_, err = f.pitches.Create(ctx, nil, &dto.CreatePitchRequest{Title: "x"})
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
}

func TestGetAllNewestFirstAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.signUp(t, "founder@example.com")
	f.createPitch(t, founder, "Older")
	f.createPitch(t, founder, "Newer")

	all, err := f.pitches.GetAll(ctx, founder)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Newer", all[0].Title)

	found, err := f.pitches.Search(ctx, founder, "OLD")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Older", found[0].Title)

	// search runs over the viewer's snapshot; a new pitch shows up after a reload
	other := f.signUp(t, "other@example.com")
	f.createPitch(t, other, "Oldest Trick")
	found, err = f.pitches.Search(ctx, founder, "old")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = f.pitches.GetAll(ctx, founder)
	require.NoError(t, err)
	found, err = f.pitches.Search(ctx, founder, "old")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestShowAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	founder := f.signUp(t, "founder@example.com")
	investor := f.signUp(t, "investor@example.com")
	pitchId := f.createPitch(t, founder, "AI Tutor")
	_, err := f.interest.ExpressInterest(ctx, investor, pitchId)
	require.NoError(t, err)

	res, err := f.pitches.Show(ctx, pitchId)
	require.NoError(t, err)
	assert.Equal(t, 1, res.InterestCount)

	_, err = f.pitches.Show(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrPitchNotFound)

	stats, err := f.pitches.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PitchCount)
	assert.Equal(t, int64(1), stats.LeadCount)
}

func TestUserRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.signUp(t, "alice@example.com")

	profile, err := f.users.GetProfile(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "founder", profile.Role)

	profile, err = f.users.UpdateRole(ctx, alice, &dto.UpdateRoleRequest{Role: "investor"})
	require.NoError(t, err)
	assert.Equal(t, "investor", profile.Role)

	_, err = f.users.UpdateRole(ctx, alice, &dto.UpdateRoleRequest{Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}
