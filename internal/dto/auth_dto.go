package dto

import "github.com/google/uuid"

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"display_name" validate:"max=255"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SessionUser struct {
	Id    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}
