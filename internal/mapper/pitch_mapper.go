package mapper

import (
	"arrow-be/internal/entity"
	"arrow-be/internal/model"

	"github.com/google/uuid"
)

type PitchMapper struct{}

func NewPitchMapper() *PitchMapper {
	return &PitchMapper{}
}

func (m *PitchMapper) ToEntity(p *model.Pitch) *entity.Pitch {
	if p == nil {
		return nil
	}

	var ownerId uuid.UUID
	if p.OwnerId != nil {
		ownerId = *p.OwnerId
	}

	return &entity.Pitch{
		Id:            p.Id,
		Title:         p.Title,
		Founder:       p.Founder,
		Sector:        p.Sector,
		Location:      p.Location,
		Summary:       p.Summary,
		Equity:        p.Equity,
		VideoURL:      p.VideoURL,
		OwnerId:       ownerId,
		OwnerEmail:    p.OwnerEmail,
		InterestCount: p.InterestCount,
		CreatedAt:     p.CreatedAt,
	}
}

func (m *PitchMapper) ToModel(p *entity.Pitch) *model.Pitch {
	if p == nil {
		return nil
	}

	var ownerId *uuid.UUID
	if p.OwnerId != uuid.Nil {
		id := p.OwnerId
		ownerId = &id
	}

	return &model.Pitch{
		Id:            p.Id,
		Title:         p.Title,
		Founder:       p.Founder,
		Sector:        p.Sector,
		Location:      p.Location,
		Summary:       p.Summary,
		Equity:        p.Equity,
		VideoURL:      p.VideoURL,
		OwnerId:       ownerId,
		OwnerEmail:    p.OwnerEmail,
		InterestCount: p.InterestCount,
		CreatedAt:     p.CreatedAt,
	}
}

func (m *PitchMapper) ToEntities(pitches []*model.Pitch) []*entity.Pitch {
	out := make([]*entity.Pitch, len(pitches))
	for i, p := range pitches {
		out[i] = m.ToEntity(p)
	}
	return out
}
