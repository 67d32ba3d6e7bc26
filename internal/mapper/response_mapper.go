package mapper

import (
	"arrow-be/internal/dto"
	"arrow-be/internal/entity"

	"github.com/google/uuid"
)

func PitchToResponse(p *entity.Pitch) dto.PitchResponse {
	res := dto.PitchResponse{
		Id:            p.Id,
		Title:         p.Title,
		Founder:       p.Founder,
		Sector:        p.Sector,
		Location:      p.Location,
		Summary:       p.Summary,
		Equity:        p.Equity,
		VideoURL:      p.VideoURL,
		OwnerEmail:    p.OwnerEmail,
		InterestCount: p.InterestCount,
		CreatedAt:     p.CreatedAt,
	}
	if p.HasOwner() {
		owner := p.OwnerId
		res.OwnerId = &owner
	}
	return res
}

func PitchesToResponse(pitches []*entity.Pitch) []dto.PitchResponse {
	res := make([]dto.PitchResponse, 0, len(pitches))
	for _, p := range pitches {
		res = append(res, PitchToResponse(p))
	}
	return res
}

// ConversationToResponse renders the conversation from the viewer's side.
func ConversationToResponse(c *entity.Conversation, viewerId uuid.UUID) dto.ConversationResponse {
	counterpartId, counterpartEmail := c.Counterpart(viewerId)
	return dto.ConversationResponse{
		Id:               c.Id,
		PitchId:          c.PitchId,
		PitchTitle:       c.PitchTitle,
		CounterpartId:    counterpartId,
		CounterpartEmail: counterpartEmail,
		Role:             string(c.RoleOf(viewerId)),
		LastMessage:      c.LastMessage,
		LastActivityAt:   c.LastActivityAt,
		CreatedAt:        c.CreatedAt,
	}
}

func MessageToResponse(m *entity.Message, viewerId uuid.UUID) dto.MessageResponse {
	return dto.MessageResponse{
		Id:          m.Id,
		Text:        m.Text,
		SenderId:    m.SenderId,
		SenderEmail: m.SenderEmail,
		Mine:        m.SenderId == viewerId,
		CreatedAt:   m.CreatedAt,
	}
}

func UserToProfile(u *entity.User) dto.UserProfileResponse {
	return dto.UserProfileResponse{
		Id:          u.Id,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
	}
}
