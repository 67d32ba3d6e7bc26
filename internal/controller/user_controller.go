package controller

import (
	"arrow-be/internal/dto"
	"arrow-be/internal/pkg/serverutils"
	"arrow-be/internal/service"
	"arrow-be/internal/session"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetProfile(ctx *fiber.Ctx) error
	UpdateRole(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
	issuer  *session.TokenIssuer
}

func NewUserController(service service.IUserService, issuer *session.TokenIssuer) IUserController {
	return &userController{service: service, issuer: issuer}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user/v1")
	h.Use(serverutils.JwtMiddleware(c.issuer))
	h.Get("/me", c.GetProfile)
	h.Get("/role", c.GetProfile)
	h.Put("/role", c.UpdateRole)
}

func (c *userController) GetProfile(ctx *fiber.Ctx) error {
	res, err := c.service.GetProfile(ctx.UserContext(), serverutils.IdentityFromCtx(ctx))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

// UpdateRole stores the role the user last picked. It does not gate anything.
func (c *userController) UpdateRole(ctx *fiber.Ctx) error {
	var req dto.UpdateRoleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateRole(ctx.UserContext(), serverutils.IdentityFromCtx(ctx), &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Role updated", res))
}
