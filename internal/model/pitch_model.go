package model

import (
	"time"

	"github.com/google/uuid"
)

type Pitch struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title         string     `gorm:"type:varchar(255);not null"`
	Founder       string     `gorm:"type:varchar(255)"`
	Sector        string     `gorm:"type:varchar(100)"`
	Location      string     `gorm:"type:varchar(100)"`
	Summary       string     `gorm:"type:text"`
	Equity        string     `gorm:"type:varchar(50)"`
	VideoURL      string     `gorm:"type:text"`
	OwnerId       *uuid.UUID `gorm:"type:uuid;index"` // NULL for legacy demo pitches
	OwnerEmail    string     `gorm:"type:varchar(255)"`
	InterestCount int        `gorm:"not null;default:0"`
	CreatedAt     time.Time  `gorm:"autoCreateTime:false;not null;default:now();index"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (Pitch) TableName() string {
	return "pitches"
}

func (Pitch) ChangeKeys() []string {
	return []string{PitchesKey}
}
