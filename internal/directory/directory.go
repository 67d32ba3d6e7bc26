// Package directory holds the pitch list of one page view: fetched once,
// then re-filtered in memory as the viewer types.
package directory

import (
	"context"
	"strings"
	"sync"

	"arrow-be/internal/dto"
	"arrow-be/internal/entity"
	"arrow-be/internal/mapper"

	"github.com/google/uuid"
)

type State string

const (
	StateError   State = "error"
	StateEmpty   State = "empty"    // nothing posted yet
	StateNoMatch State = "no_match" // pitches exist, none match the query
	StateReady   State = "ready"
)

// View is the render output of the directory.
type View struct {
	State      State               `json:"state"`
	Error      string              `json:"error,omitempty"`
	Query      string              `json:"query"`
	Items      []dto.PitchResponse `json:"items"`
	PitchCount int                 `json:"pitch_count"`
	LeadCount  int                 `json:"lead_count"`
}

// Loader fetches every pitch, newest first.
type Loader func(ctx context.Context) ([]*entity.Pitch, error)

type Directory struct {
	mu      sync.RWMutex
	loaded  bool
	err     error
	pitches []*entity.Pitch
	query   string
}

func New() *Directory {
	return &Directory{}
}

// Load fetches the snapshot once. Later calls re-render without fetching.
func (d *Directory) Load(ctx context.Context, load Loader) View {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.loaded {
		d.pitches, d.err = load(ctx)
		d.loaded = true
	}
	return Render(d.pitches, d.err, d.query)
}

// Filter re-renders the held snapshot for query. It never touches the store.
func (d *Directory) Filter(query string) View {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.query = query
	return Render(d.pitches, d.err, query)
}

// Find looks a pitch up in the held snapshot.
func (d *Directory) Find(id uuid.UUID) (*entity.Pitch, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, p := range d.pitches {
		if p.Id == id {
			return p, true
		}
	}
	return nil, false
}

func Render(pitches []*entity.Pitch, err error, query string) View {
	if err != nil {
		return View{State: StateError, Error: err.Error(), Query: query, Items: []dto.PitchResponse{}}
	}

	view := View{Query: query, PitchCount: len(pitches)}
	for _, p := range pitches {
		view.LeadCount += p.InterestCount
	}

	matched := Filter(pitches, query)
	view.Items = mapper.PitchesToResponse(matched)
	switch {
	case len(pitches) == 0:
		view.State = StateEmpty
	case len(matched) == 0:
		view.State = StateNoMatch
	default:
		view.State = StateReady
	}
	return view
}

// Filter returns the pitches matching query, in input order, as a new slice.
// A blank query matches everything.
func Filter(pitches []*entity.Pitch, query string) []*entity.Pitch {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*entity.Pitch, 0, len(pitches))
	for _, p := range pitches {
		if q == "" || Matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether the lower-cased query q occurs in any searchable field.
func Matches(p *entity.Pitch, q string) bool {
	for _, field := range []string{p.Title, p.Founder, p.Sector, p.Location, p.Summary} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
