package memory

import (
	"context"
	"sort"

	"arrow-be/internal/entity"
	"arrow-be/internal/model"

	"github.com/google/uuid"
)

type pitchRepository struct {
	s *Store
}

func (r *pitchRepository) Create(ctx context.Context, pitch *entity.Pitch) error {
	r.s.mu.Lock()
	pitches, err := load[entity.Pitch](r.s.kv, keyPitches)
	if err != nil {
		r.s.mu.Unlock()
		return err
	}
	if pitch.Id == uuid.Nil {
		pitch.Id = uuid.New()
	}
	pitch.CreatedAt = r.s.clock()
	err = save(r.s.kv, keyPitches, append(pitches, *pitch))
	r.s.mu.Unlock()
	if err != nil {
		return err
	}

	r.s.publish(ctx, model.PitchesKey)
	return nil
}

func (r *pitchRepository) find(match func(p *entity.Pitch) bool) (*entity.Pitch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pitches, err := load[entity.Pitch](r.s.kv, keyPitches)
	if err != nil {
		return nil, err
	}
	for i := range pitches {
		if match(&pitches[i]) {
			return &pitches[i], nil
		}
	}
	return nil, nil
}

func (r *pitchRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Pitch, error) {
	return r.find(func(p *entity.Pitch) bool { return p.Id == id })
}

func (r *pitchRepository) FindByTitle(ctx context.Context, title string) (*entity.Pitch, error) {
	return r.find(func(p *entity.Pitch) bool { return p.Title == title })
}

func (r *pitchRepository) FindAll(ctx context.Context) ([]*entity.Pitch, error) {
	r.s.mu.Lock()
	pitches, err := load[entity.Pitch](r.s.kv, keyPitches)
	r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Pitch, len(pitches))
	for i := range pitches {
		out[i] = &pitches[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *pitchRepository) SetInterestCount(ctx context.Context, id uuid.UUID, count int) error {
	r.s.mu.Lock()
	pitches, err := load[entity.Pitch](r.s.kv, keyPitches)
	if err != nil {
		r.s.mu.Unlock()
		return err
	}
	changed := false
	for i := range pitches {
		if pitches[i].Id == id {
			pitches[i].InterestCount = count
			changed = true
		}
	}
	if changed {
		err = save(r.s.kv, keyPitches, pitches)
	}
	r.s.mu.Unlock()
	if err != nil || !changed {
		return err
	}

	r.s.publish(ctx, model.PitchesKey)
	return nil
}

func (r *pitchRepository) Stats(ctx context.Context) (*entity.PitchStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	pitches, err := load[entity.Pitch](r.s.kv, keyPitches)
	if err != nil {
		return nil, err
	}
	stats := &entity.PitchStats{PitchCount: int64(len(pitches))}
	for _, p := range pitches {
		stats.LeadCount += int64(p.InterestCount)
	}
	return stats, nil
}
