package controller

import (
	"arrow-be/internal/pkg/serverutils"
	"arrow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDemoController interface {
	RegisterRoutes(r fiber.Router)
	Seed(ctx *fiber.Ctx) error
	Wipe(ctx *fiber.Ctx) error
}

type demoController struct {
	service service.IDemoService
}

// NewDemoController serves the in-memory demo store. It is only registered in demo mode.
func NewDemoController(service service.IDemoService) IDemoController {
	return &demoController{service: service}
}

func (c *demoController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/demo")
	h.Post("/seed", c.Seed)
	h.Post("/wipe", c.Wipe)
}

func (c *demoController) Seed(ctx *fiber.Ctx) error {
	res, err := c.service.Seed(ctx.UserContext())
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Demo pitches seeded", res))
}

func (c *demoController) Wipe(ctx *fiber.Ctx) error {
	if err := c.service.Wipe(ctx.UserContext()); err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Demo store wiped", nil))
}
