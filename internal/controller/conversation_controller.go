package controller

import (
	"arrow-be/internal/dto"
	"arrow-be/internal/entity"
	"arrow-be/internal/mapper"
	"arrow-be/internal/pkg/serverutils"
	"arrow-be/internal/service"
	"arrow-be/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Messages(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
}

type conversationController struct {
	chatService service.IChatService
	issuer      *session.TokenIssuer
}

func NewConversationController(chatService service.IChatService, issuer *session.TokenIssuer) IConversationController {
	return &conversationController{chatService: chatService, issuer: issuer}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversations/v1")
	h.Use(serverutils.JwtMiddleware(c.issuer))
	h.Get("", c.List)
	h.Get(":id/messages", c.Messages)
	h.Post(":id/messages", c.Send)
}

func (c *conversationController) List(ctx *fiber.Ctx) error {
	viewer := serverutils.IdentityFromCtx(ctx)
	convs, err := c.chatService.ListConversations(ctx.UserContext(), viewer)
	if err != nil {
		return httpError(err)
	}

	res := make([]dto.ConversationResponse, 0, len(convs))
	for _, conv := range convs {
		res = append(res, mapper.ConversationToResponse(conv, viewer.UserId))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get conversations", res))
}

func (c *conversationController) Messages(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.BadRequest("Invalid conversation id")
	}

	viewer := serverutils.IdentityFromCtx(ctx)
	msgs, err := c.chatService.ListMessages(ctx.UserContext(), viewer, id)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get messages", messagesToResponse(msgs, viewer)))
}

func (c *conversationController) Send(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.BadRequest("Invalid conversation id")
	}

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.BadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	viewer := serverutils.IdentityFromCtx(ctx)
	conv, err := c.chatService.GetConversation(ctx.UserContext(), viewer, id)
	if err != nil {
		return httpError(err)
	}

	msg, err := c.chatService.SendMessage(ctx.UserContext(), viewer, conv, req.Text)
	if err != nil {
		return httpError(err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Message sent", mapper.MessageToResponse(msg, viewer.UserId)))
}

func messagesToResponse(msgs []*entity.Message, viewer *session.Identity) []dto.MessageResponse {
	res := make([]dto.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		res = append(res, mapper.MessageToResponse(m, viewer.UserId))
	}
	return res
}
