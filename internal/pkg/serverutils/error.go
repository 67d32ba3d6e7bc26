package serverutils

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AppError is an error with the HTTP status it should be reported with.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code int, err error) *AppError {
	return &AppError{Code: code, Message: StripProviderPrefix(err.Error()), Err: err}
}

func BadRequest(message string) *AppError {
	return &AppError{Code: fiber.StatusBadRequest, Message: message}
}

func NotFound(message string) *AppError {
	return &AppError{Code: fiber.StatusNotFound, Message: message}
}

// StripProviderPrefix drops a leading "<provider>: " tag from identity and
// store errors so the text reads well in a form.
func StripProviderPrefix(msg string) string {
	if i := strings.Index(msg, ": "); i > 0 && !strings.ContainsAny(msg[:i], " \t") {
		return msg[i+2:]
	}
	return msg
}

// ErrorHandlerMiddleware renders any error returned by a handler as the JSON envelope.
func ErrorHandlerMiddleware() fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var appErr *AppError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
			code = appErr.Code
			message = appErr.Message
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
