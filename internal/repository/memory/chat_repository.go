package memory

import (
	"context"
	"fmt"
	"sort"

	"arrow-be/internal/entity"
	"arrow-be/internal/model"
	"arrow-be/internal/repository/contract"

	"github.com/google/uuid"
)

func conversationKeys(c *entity.Conversation) []string {
	return model.Conversation{Id: c.Id, FounderId: c.FounderId, InvestorId: c.InvestorId}.ChangeKeys()
}

type conversationRepository struct {
	s *Store
}

func (r *conversationRepository) Create(ctx context.Context, conv *entity.Conversation) error {
	r.s.mu.Lock()
	convs, err := load[entity.Conversation](r.s.kv, keyConversations)
	if err != nil {
		r.s.mu.Unlock()
		return err
	}
	for _, c := range convs {
		if c.Id == conv.Id || (c.PitchId == conv.PitchId && c.InvestorId == conv.InvestorId) {
			r.s.mu.Unlock()
			return contract.ErrDuplicateKey
		}
	}
	now := r.s.clock()
	conv.CreatedAt = now
	conv.LastActivityAt = now
	err = save(r.s.kv, keyConversations, append(convs, *conv))
	r.s.mu.Unlock()
	if err != nil {
		return err
	}

	r.s.publish(ctx, conversationKeys(conv)...)
	return nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	convs, err := load[entity.Conversation](r.s.kv, keyConversations)
	if err != nil {
		return nil, err
	}
	for i := range convs {
		if convs[i].Id == id {
			return &convs[i], nil
		}
	}
	return nil, nil
}

func (r *conversationRepository) update(ctx context.Context, conv *entity.Conversation, apply func(c *entity.Conversation)) error {
	r.s.mu.Lock()
	convs, err := load[entity.Conversation](r.s.kv, keyConversations)
	if err != nil {
		r.s.mu.Unlock()
		return err
	}
	found := false
	for i := range convs {
		if convs[i].Id == conv.Id {
			apply(&convs[i])
			convs[i].LastActivityAt = r.s.clock()
			conv.LastMessage = convs[i].LastMessage
			conv.LastActivityAt = convs[i].LastActivityAt
			found = true
		}
	}
	if !found {
		r.s.mu.Unlock()
		return fmt.Errorf("conversation %s: %w", conv.Id, contract.ErrNotFound)
	}
	err = save(r.s.kv, keyConversations, convs)
	r.s.mu.Unlock()
	if err != nil {
		return err
	}

	r.s.publish(ctx, conversationKeys(conv)...)
	return nil
}

func (r *conversationRepository) Touch(ctx context.Context, conv *entity.Conversation) error {
	return r.update(ctx, conv, func(c *entity.Conversation) {})
}

func (r *conversationRepository) UpdateSummary(ctx context.Context, conv *entity.Conversation, lastMessage string) error {
	return r.update(ctx, conv, func(c *entity.Conversation) { c.LastMessage = lastMessage })
}

func (r *conversationRepository) FindByParticipant(ctx context.Context, userId uuid.UUID) ([]*entity.Conversation, error) {
	r.s.mu.Lock()
	convs, err := load[entity.Conversation](r.s.kv, keyConversations)
	r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var out []*entity.Conversation
	for i := range convs {
		if convs[i].HasParticipant(userId) {
			out = append(out, &convs[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastActivityAt.After(out[j].LastActivityAt)
	})
	return out, nil
}

type messageRepository struct {
	s *Store
}

func (r *messageRepository) Create(ctx context.Context, msg *entity.Message) error {
	key := keyMessages + msg.ConversationId.String()

	r.s.mu.Lock()
	msgs, err := load[entity.Message](r.s.kv, key)
	if err != nil {
		r.s.mu.Unlock()
		return err
	}
	if msg.Id == uuid.Nil {
		msg.Id = uuid.New()
	}
	msg.CreatedAt = r.s.clock()
	msg.Seq = r.s.nextSeq()
	err = save(r.s.kv, key, append(msgs, *msg))
	r.s.mu.Unlock()
	if err != nil {
		return err
	}

	r.s.publish(ctx, model.ConversationMessagesKey(msg.ConversationId))
	return nil
}

func (r *messageRepository) FindByConversation(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error) {
	r.s.mu.Lock()
	msgs, err := load[entity.Message](r.s.kv, keyMessages+conversationId.String())
	r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]*entity.Message, len(msgs))
	for i := range msgs {
		out[i] = &msgs[i]
	}
	entity.SortMessages(out)
	return out, nil
}
