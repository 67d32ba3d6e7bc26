package implementation

import (
	"context"
	"fmt"

	"arrow-be/internal/entity"
	"arrow-be/internal/mapper"
	"arrow-be/internal/model"
	"arrow-be/internal/repository/contract"
	"arrow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewConversationRepository(db *gorm.DB) contract.ConversationRepository {
	return &ConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ConversationRepositoryImpl) Create(ctx context.Context, conv *entity.Conversation) error {
	m := r.mapper.ConversationToModel(conv)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	*conv = *r.mapper.ConversationToEntity(m)
	return nil
}

func (r *ConversationRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	var m model.Conversation
	query := specification.Apply(r.db.WithContext(ctx), specification.ByID{ID: id})
	if err := query.First(&m).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ConversationToEntity(&m), nil
}

// keyed carries only what the update needs: the primary key for the WHERE
// clause and both participants for the change keys.
func keyed(conv *entity.Conversation) *model.Conversation {
	return &model.Conversation{
		Id:         conv.Id,
		FounderId:  conv.FounderId,
		InvestorId: conv.InvestorId,
	}
}

func updated(conv *entity.Conversation, result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("conversation %s: %w", conv.Id, contract.ErrNotFound)
	}
	return nil
}

func (r *ConversationRepositoryImpl) Touch(ctx context.Context, conv *entity.Conversation) error {
	m := keyed(conv)
	result := r.db.WithContext(ctx).Model(m).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "last_activity_at"}}}).
		Update("last_activity_at", gorm.Expr("NOW()"))
	if err := updated(conv, result); err != nil {
		return err
	}
	conv.LastActivityAt = m.LastActivityAt
	return nil
}

func (r *ConversationRepositoryImpl) UpdateSummary(ctx context.Context, conv *entity.Conversation, lastMessage string) error {
	m := keyed(conv)
	result := r.db.WithContext(ctx).Model(m).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "last_activity_at"}}}).
		Updates(map[string]interface{}{
			"last_message":     lastMessage,
			"last_activity_at": gorm.Expr("NOW()"),
		})
	if err := updated(conv, result); err != nil {
		return err
	}
	conv.LastMessage = lastMessage
	conv.LastActivityAt = m.LastActivityAt
	return nil
}

func (r *ConversationRepositoryImpl) FindByParticipant(ctx context.Context, userId uuid.UUID) ([]*entity.Conversation, error) {
	var models []*model.Conversation
	query := specification.Apply(r.db.WithContext(ctx),
		specification.ParticipantOf{UserID: userId},
		specification.OrderBy{Field: "last_activity_at", Desc: true},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ConversationsToEntities(models), nil
}
