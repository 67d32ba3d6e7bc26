package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrPitchMissingOwner = errors.New("pitch has no owner id, cannot open a conversation")

// conversationNamespace scopes the name-based conversation ids.
var conversationNamespace = uuid.MustParse("6f1c7a52-3d4e-4b8a-9a57-2f0e8c1b5d43")

// ConversationID derives the stable conversation id of a (pitch, investor) pair.
// Same inputs always give the same id.
func ConversationID(pitchId, investorId uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(conversationNamespace, []byte(pitchId.String()+"_"+investorId.String()))
}

type Conversation struct {
	Id             uuid.UUID
	PitchId        uuid.UUID
	PitchTitle     string
	FounderId      uuid.UUID
	FounderEmail   string
	InvestorId     uuid.UUID
	InvestorEmail  string
	Participants   []uuid.UUID
	LastMessage    string
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// NewConversation builds the record an interest action creates. The pitch must
// carry an owner; participants are exactly {founder, investor}.
func NewConversation(pitch *Pitch, investorId uuid.UUID, investorEmail string) (*Conversation, error) {
	if !pitch.HasOwner() {
		return nil, ErrPitchMissingOwner
	}
	if investorId == uuid.Nil {
		return nil, errors.New("investor id is required")
	}

	return &Conversation{
		Id:            ConversationID(pitch.Id, investorId),
		PitchId:       pitch.Id,
		PitchTitle:    pitch.Title,
		FounderId:     pitch.OwnerId,
		FounderEmail:  pitch.OwnerEmail,
		InvestorId:    investorId,
		InvestorEmail: investorEmail,
		Participants:  []uuid.UUID{pitch.OwnerId, investorId},
	}, nil
}

func (c *Conversation) HasParticipant(userId uuid.UUID) bool {
	for _, p := range c.Participants {
		if p == userId {
			return true
		}
	}
	return false
}

// RoleOf labels the viewer by comparing against the founder id.
func (c *Conversation) RoleOf(viewerId uuid.UUID) UserRole {
	if viewerId == c.FounderId {
		return UserRoleFounder
	}
	return UserRoleInvestor
}

// Counterpart returns the participant who is not the viewer.
func (c *Conversation) Counterpart(viewerId uuid.UUID) (uuid.UUID, string) {
	if viewerId == c.FounderId {
		return c.InvestorId, c.InvestorEmail
	}
	return c.FounderId, c.FounderEmail
}
