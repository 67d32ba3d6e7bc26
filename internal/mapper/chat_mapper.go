package mapper

import (
	"arrow-be/internal/entity"
	"arrow-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Conversation Mappers

func (m *ChatMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	participants := make([]uuid.UUID, 0, len(c.Participants))
	for _, p := range c.Participants {
		if id, err := uuid.Parse(p); err == nil {
			participants = append(participants, id)
		}
	}

	return &entity.Conversation{
		Id:             c.Id,
		PitchId:        c.PitchId,
		PitchTitle:     c.PitchTitle,
		FounderId:      c.FounderId,
		FounderEmail:   c.FounderEmail,
		InvestorId:     c.InvestorId,
		InvestorEmail:  c.InvestorEmail,
		Participants:   participants,
		LastMessage:    c.LastMessage,
		CreatedAt:      c.CreatedAt,
		LastActivityAt: c.LastActivityAt,
	}
}

func (m *ChatMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	participants := make(datatypes.JSONSlice[string], len(c.Participants))
	for i, p := range c.Participants {
		participants[i] = p.String()
	}

	return &model.Conversation{
		Id:             c.Id,
		PitchId:        c.PitchId,
		PitchTitle:     c.PitchTitle,
		FounderId:      c.FounderId,
		FounderEmail:   c.FounderEmail,
		InvestorId:     c.InvestorId,
		InvestorEmail:  c.InvestorEmail,
		Participants:   participants,
		LastMessage:    c.LastMessage,
		CreatedAt:      c.CreatedAt,
		LastActivityAt: c.LastActivityAt,
	}
}

func (m *ChatMapper) ConversationsToEntities(cs []*model.Conversation) []*entity.Conversation {
	out := make([]*entity.Conversation, len(cs))
	for i, c := range cs {
		out[i] = m.ConversationToEntity(c)
	}
	return out
}

// Message Mappers

func (m *ChatMapper) MessageToEntity(msg *model.Message) *entity.Message {
	if msg == nil {
		return nil
	}
	return &entity.Message{
		Id:             msg.Id,
		Seq:            msg.Seq,
		ConversationId: msg.ConversationId,
		Text:           msg.Text,
		SenderId:       msg.SenderId,
		SenderEmail:    msg.SenderEmail,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.Message) *model.Message {
	if msg == nil {
		return nil
	}
	return &model.Message{
		Id:             msg.Id,
		Seq:            msg.Seq,
		ConversationId: msg.ConversationId,
		Text:           msg.Text,
		SenderId:       msg.SenderId,
		SenderEmail:    msg.SenderEmail,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ChatMapper) MessagesToEntities(msgs []*model.Message) []*entity.Message {
	out := make([]*entity.Message, len(msgs))
	for i, msg := range msgs {
		out[i] = m.MessageToEntity(msg)
	}
	return out
}
