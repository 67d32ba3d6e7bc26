package serverutils

import (
	"strings"

	"arrow-be/internal/session"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// JwtMiddleware authenticates the bearer token and stores the identity in Locals.
func JwtMiddleware(issuer *session.TokenIssuer) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		id, err := issuer.Parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		ctx.Locals("user_id", id.UserId.String())
		ctx.Locals(identityKey, id)
		return ctx.Next()
	}
}

// IdentityFromCtx returns the identity JwtMiddleware stored, or nil.
func IdentityFromCtx(ctx *fiber.Ctx) *session.Identity {
	id, _ := ctx.Locals(identityKey).(*session.Identity)
	return id
}
