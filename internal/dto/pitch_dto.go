package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Equity accepts either a JSON string ("8%", "10") or a number (8.5).
type Equity string

func (e *Equity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*e = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = Equity(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*e = Equity(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

type CreatePitchRequest struct {
	Title    string `json:"title" validate:"required,max=255"`
	Founder  string `json:"founder" validate:"max=255"`
	Sector   string `json:"sector" validate:"max=100"`
	Location string `json:"location" validate:"max=100"`
	Summary  string `json:"summary"`
	Equity   Equity `json:"equity" validate:"max=50"`
	VideoURL string `json:"video_url" validate:"omitempty,url"`
}

type PitchResponse struct {
	Id            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Founder       string     `json:"founder"`
	Sector        string     `json:"sector"`
	Location      string     `json:"location"`
	Summary       string     `json:"summary"`
	Equity        string     `json:"equity"`
	VideoURL      string     `json:"video_url,omitempty"`
	OwnerId       *uuid.UUID `json:"owner_id"`
	OwnerEmail    string     `json:"owner_email,omitempty"`
	InterestCount int        `json:"interest_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

type PitchStatsResponse struct {
	PitchCount int64 `json:"pitch_count"`
	LeadCount  int64 `json:"lead_count"`
}

type InterestResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	Created      bool                 `json:"created"`
}
