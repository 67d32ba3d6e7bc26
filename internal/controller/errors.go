package controller

import (
	"errors"

	"arrow-be/internal/pkg/serverutils"
	"arrow-be/internal/repository/contract"
	"arrow-be/internal/service"
	"arrow-be/internal/session"

	"github.com/gofiber/fiber/v2"
)

// httpError maps service errors to the status the client should see.
// Unknown errors pass through and end up as 500.
func httpError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *serverutils.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, session.ErrUnauthenticated),
		errors.Is(err, session.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return serverutils.NewAppError(fiber.StatusUnauthorized, err)
	case errors.Is(err, service.ErrNotParticipant):
		return serverutils.NewAppError(fiber.StatusForbidden, err)
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPitchNotFound),
		errors.Is(err, service.ErrConversationNotFound),
		errors.Is(err, contract.ErrNotFound):
		return serverutils.NewAppError(fiber.StatusNotFound, err)
	case errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidResetToken),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrSelfInterest),
		errors.Is(err, service.ErrPitchMissingOwner),
		errors.Is(err, service.ErrInvalidRole):
		return serverutils.NewAppError(fiber.StatusBadRequest, err)
	}
	return err
}

