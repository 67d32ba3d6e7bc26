package memory

import (
	"time"

	"arrow-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// PitchSnapshotRepository keeps the pitch list a user last loaded, so REST
// searches filter that snapshot instead of querying the store again.
type PitchSnapshotRepository struct {
	cache *cache.Cache
}

func NewPitchSnapshotRepository() *PitchSnapshotRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &PitchSnapshotRepository{
		cache: c,
	}
}

func (r *PitchSnapshotRepository) Save(userId uuid.UUID, pitches []*entity.Pitch) {
	r.cache.Set(userId.String(), pitches, cache.DefaultExpiration)
}

func (r *PitchSnapshotRepository) Get(userId uuid.UUID) ([]*entity.Pitch, bool) {
	if x, found := r.cache.Get(userId.String()); found {
		return x.([]*entity.Pitch), true
	}
	return nil, false
}

func (r *PitchSnapshotRepository) Delete(userId uuid.UUID) {
	r.cache.Delete(userId.String())
}
