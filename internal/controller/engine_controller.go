package controller

import (
	"github.com/gofiber/fiber/v2"

	"amplified-be/internal/apperror"
	"amplified-be/internal/dto"
	"amplified-be/internal/pkg/serverutils"
	"amplified-be/internal/service"
)

type IEngineController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Select(ctx *fiber.Ctx) error
}

type engineController struct {
	service service.IEngineService
}

func NewEngineController(service service.IEngineService) IEngineController {
	return &engineController{service: service}
}

func (c *engineController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/engine/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetAll)
	h.Put("select", c.Select)
}

func (c *engineController) GetAll(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.ListEngines(ctx.Context(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get engines", res))
}

func (c *engineController) Select(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.SelectEngineRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SelectEngine(ctx.Context(), userId, req.Engine)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success select engine", res))
}
