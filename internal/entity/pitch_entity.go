package entity

import (
	"time"

	"github.com/google/uuid"
)

type Pitch struct {
	Id            uuid.UUID
	Title         string
	Founder       string
	Sector        string
	Location      string
	Summary       string
	Equity        string
	VideoURL      string
	OwnerId       uuid.UUID // uuid.Nil when the pitch has no owner
	OwnerEmail    string
	InterestCount int
	CreatedAt     time.Time
}

func (p *Pitch) HasOwner() bool {
	return p != nil && p.OwnerId != uuid.Nil
}

type PitchStats struct {
	PitchCount int64
	LeadCount  int64 // sum of interest counters
}
