package implementation

import (
	"context"
	"time"

	"arrow-be/internal/entity"
	"arrow-be/internal/mapper"
	"arrow-be/internal/model"
	"arrow-be/internal/repository/contract"
	"arrow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewMessageRepository(db *gorm.DB) contract.MessageRepository {
	return &MessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *MessageRepositoryImpl) Create(ctx context.Context, msg *entity.Message) error {
	m := r.mapper.MessageToModel(msg)
	// created_at and seq come back from the database defaults.
	m.CreatedAt = time.Time{}
	m.Seq = 0
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	*msg = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *MessageRepositoryImpl) FindByConversation(ctx context.Context, conversationId uuid.UUID) ([]*entity.Message, error) {
	var models []*model.Message
	query := specification.Apply(r.db.WithContext(ctx),
		specification.ByConversationID{ConversationID: conversationId},
		specification.MessageLogOrder{},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.MessagesToEntities(models), nil
}
