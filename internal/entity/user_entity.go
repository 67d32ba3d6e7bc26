package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleFounder  UserRole = "founder"
	UserRoleInvestor UserRole = "investor"
)

func (r UserRole) Valid() bool {
	return r == UserRoleFounder || r == UserRoleInvestor
}

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type PasswordResetToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
