package implementation

import (
	"context"

	"arrow-be/internal/entity"
	"arrow-be/internal/mapper"
	"arrow-be/internal/model"
	"arrow-be/internal/repository/contract"
	"arrow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PitchRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PitchMapper
}

func NewPitchRepository(db *gorm.DB) contract.PitchRepository {
	return &PitchRepositoryImpl{
		db:     db,
		mapper: mapper.NewPitchMapper(),
	}
}

func (r *PitchRepositoryImpl) Create(ctx context.Context, pitch *entity.Pitch) error {
	m := r.mapper.ToModel(pitch)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	*pitch = *r.mapper.ToEntity(m)
	return nil
}

func (r *PitchRepositoryImpl) findOne(ctx context.Context, specs ...specification.Specification) (*entity.Pitch, error) {
	var m model.Pitch
	query := specification.Apply(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PitchRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Pitch, error) {
	return r.findOne(ctx, specification.ByID{ID: id})
}

func (r *PitchRepositoryImpl) FindByTitle(ctx context.Context, title string) (*entity.Pitch, error) {
	return r.findOne(ctx, specification.ByTitle{Title: title})
}

func (r *PitchRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Pitch, error) {
	var models []*model.Pitch
	query := specification.Apply(r.db.WithContext(ctx),
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.OrderBy{Field: "id", Desc: true},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PitchRepositoryImpl) SetInterestCount(ctx context.Context, id uuid.UUID, count int) error {
	return r.db.WithContext(ctx).Model(&model.Pitch{Id: id}).
		Update("interest_count", count).Error
}

func (r *PitchRepositoryImpl) Stats(ctx context.Context) (*entity.PitchStats, error) {
	var row struct {
		PitchCount int64
		LeadCount  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Pitch{}).
		Select("COUNT(*) AS pitch_count, COALESCE(SUM(interest_count), 0) AS lead_count").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	return &entity.PitchStats{PitchCount: row.PitchCount, LeadCount: row.LeadCount}, nil
}
