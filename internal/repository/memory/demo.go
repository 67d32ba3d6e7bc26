package memory

import (
	"context"
	"fmt"

	"arrow-be/internal/entity"
	"arrow-be/internal/model"

	"github.com/google/uuid"
)

// DemoPitches are the two fixed sample pitches of demo mode. They carry no
// owner, so expressing interest in them fails until an owner is assigned.
func DemoPitches() []entity.Pitch {
	return []entity.Pitch{
		{
			Title:    "AI Tutor",
			Founder:  "Sample Founder",
			Sector:   "EdTech",
			Location: "NY",
			Equity:   "8",
			Summary:  "Short demo pitch so you can see the UI in action.",
		},
		{
			Title:    "F",
			Founder:  "Ff",
			Sector:   "Fintech",
			Location: "NY",
			Equity:   "10",
			Summary:  "Fgggrv gghhtg gghfvv",
		},
	}
}

// Seed replaces every pitch with the demo set.
func (s *Store) Seed(ctx context.Context) ([]*entity.Pitch, error) {
	s.mu.Lock()
	demo := DemoPitches()
	// stamp in reverse so the feed lists them in declaration order
	for i := len(demo) - 1; i >= 0; i-- {
		demo[i].Id = demoPitchID(i)
		demo[i].CreatedAt = s.clock()
	}
	err := save(s.kv, keyPitches, demo)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.PitchesKey)
	out := make([]*entity.Pitch, len(demo))
	for i := range demo {
		out[i] = &demo[i]
	}
	return out, nil
}

// SeedIfEmpty seeds the demo set on first use so the feed is never blank.
func (s *Store) SeedIfEmpty(ctx context.Context) error {
	s.mu.Lock()
	pitches, err := load[entity.Pitch](s.kv, keyPitches)
	s.mu.Unlock()
	if err != nil || len(pitches) > 0 {
		return err
	}
	_, err = s.Seed(ctx)
	return err
}

// Wipe removes every pitch from the demo store.
func (s *Store) Wipe(ctx context.Context) error {
	s.mu.Lock()
	err := save[entity.Pitch](s.kv, keyPitches, nil)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(ctx, model.PitchesKey)
	return nil
}

// demoPitchID keeps demo ids stable across reseeds.
func demoPitchID(i int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("arrow:demo-%d", i+1)))
}
