package controller

import (
	"arrow-be/internal/dto"
	"arrow-be/internal/mapper"
	"arrow-be/internal/pkg/serverutils"
	"arrow-be/internal/service"
	"arrow-be/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPitchController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ExpressInterest(ctx *fiber.Ctx) error
}

type pitchController struct {
	pitchService    service.IPitchService
	interestService service.IInterestService
	issuer          *session.TokenIssuer
}

func NewPitchController(pitchService service.IPitchService, interestService service.IInterestService, issuer *session.TokenIssuer) IPitchController {
	return &pitchController{
		pitchService:    pitchService,
		interestService: interestService,
		issuer:          issuer,
	}
}

func (c *pitchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/pitches/v1")
	h.Use(serverutils.JwtMiddleware(c.issuer))
	h.Get("", c.GetAll)
	h.Get("search", c.Search)
	h.Get("stats", c.Stats)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Post(":id/interest", c.ExpressInterest)
}

func (c *pitchController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.pitchService.GetAll(ctx.UserContext(), serverutils.IdentityFromCtx(ctx))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get pitches", res))
}

func (c *pitchController) Search(ctx *fiber.Ctx) error {
	res, err := c.pitchService.Search(ctx.UserContext(), serverutils.IdentityFromCtx(ctx), ctx.Query("q"))
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success search pitches", res))
}

func (c *pitchController) Stats(ctx *fiber.Ctx) error {
	res, err := c.pitchService.Stats(ctx.UserContext())
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get stats", res))
}

func (c *pitchController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePitchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.pitchService.Create(ctx.UserContext(), serverutils.IdentityFromCtx(ctx), &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create pitch", res))
}

func (c *pitchController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.BadRequest("Invalid pitch id")
	}

	res, err := c.pitchService.Show(ctx.UserContext(), id)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show pitch", res))
}

// ExpressInterest opens, or reopens, the conversation between the caller and the pitch owner.
func (c *pitchController) ExpressInterest(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.BadRequest("Invalid pitch id")
	}

	viewer := serverutils.IdentityFromCtx(ctx)
	result, err := c.interestService.ExpressInterest(ctx.UserContext(), viewer, id)
	if err != nil {
		return httpError(err)
	}

	status := fiber.StatusOK
	if result.Created {
		status = fiber.StatusCreated
	}
	return ctx.Status(status).JSON(serverutils.SuccessResponse("Interest recorded", dto.InterestResponse{
		Conversation: mapper.ConversationToResponse(result.Conversation, viewer.UserId),
		Created:      result.Created,
	}))
}
