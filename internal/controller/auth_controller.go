package controller

import (
	"arrow-be/internal/dto"
	"arrow-be/internal/pkg/serverutils"
	"arrow-be/internal/service"
	"arrow-be/internal/session"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	SignUp(ctx *fiber.Ctx) error
	SignIn(ctx *fiber.Ctx) error
	SignOut(ctx *fiber.Ctx) error
	PasswordReset(ctx *fiber.Ctx) error
	PasswordResetConfirm(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	issuer  *session.TokenIssuer
}

func NewAuthController(service service.IAuthService, issuer *session.TokenIssuer) IAuthController {
	return &authController{service: service, issuer: issuer}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/signup", c.SignUp)
	h.Post("/signin", c.SignIn)
	h.Post("/password-reset", c.PasswordReset)
	h.Post("/password-reset/confirm", c.PasswordResetConfirm)

	protected := h.Group("", serverutils.JwtMiddleware(c.issuer))
	protected.Post("/signout", c.SignOut)
	protected.Get("/session", c.Session)
}

func (c *authController) SignUp(ctx *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SignUp(ctx.UserContext(), &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Account created", res))
}

func (c *authController) SignIn(ctx *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SignIn(ctx.UserContext(), &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Signed in", res))
}

// SignOut ends the session in every open page view of the caller.
func (c *authController) SignOut(ctx *fiber.Ctx) error {
	if err := c.service.SignOut(ctx.UserContext(), serverutils.IdentityFromCtx(ctx)); err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Signed out", nil))
}

func (c *authController) PasswordReset(ctx *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.SendPasswordReset(ctx.UserContext(), &req); err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password reset email sent", nil))
}

func (c *authController) PasswordResetConfirm(ctx *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.ResetPassword(ctx.UserContext(), &req); err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password updated", nil))
}

func (c *authController) Session(ctx *fiber.Ctx) error {
	id := serverutils.IdentityFromCtx(ctx)
	return ctx.JSON(serverutils.SuccessResponse("Signed in", dto.SessionUser{Id: id.UserId, Email: id.Email}))
}
