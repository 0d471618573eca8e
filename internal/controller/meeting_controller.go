package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"amplified-be/internal/apperror"
	"amplified-be/internal/dto"
	"amplified-be/internal/pkg/serverutils"
	"amplified-be/internal/service"
)

type IMeetingController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Transcript(ctx *fiber.Ctx) error
	AddAction(ctx *fiber.Ctx) error
	SetActionStatus(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	GenerateSummary(ctx *fiber.Ctx) error
}

type meetingController struct {
	service    service.IMeetingService
	suggestion service.ISuggestionService
}

func NewMeetingController(service service.IMeetingService, suggestion service.ISuggestionService) IMeetingController {
	return &meetingController{service: service, suggestion: suggestion}
}

func (c *meetingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/meeting/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Get(":id/transcript", c.Transcript)
	h.Post(":id/actions", c.AddAction)
	h.Post(":id/ask", c.Ask)
	h.Post(":id/summaries/generate", c.GenerateSummary)
	h.Put("action/:actionId/status", c.SetActionStatus)
}

func (c *meetingController) Create(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateMeetingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateMeeting(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create meeting", res))
}

func (c *meetingController) Show(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.GetMeeting(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show meeting", res))
}

func (c *meetingController) GetAll(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.ListMeetingsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return apperror.Validation("invalid query parameters")
	}

	res, err := c.service.ListMeetings(ctx.Context(), userId, req.Limit, req.Offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all meetings", res))
}

func (c *meetingController) Update(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateMeetingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateMeeting(ctx.Context(), userId, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update meeting", res))
}

func (c *meetingController) Delete(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.service.DeleteMeeting(ctx.Context(), userId, id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete meeting", struct{}{}))
}

func (c *meetingController) Transcript(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.service.GetTranscript(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get transcript", res))
}

func (c *meetingController) AddAction(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.CreateActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddAction(ctx.Context(), userId, id, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create action", res))
}

func (c *meetingController) Ask(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.AskMeetingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.suggestion.AskMeeting(ctx.Context(), userId, id, req.Question)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}

func (c *meetingController) GenerateSummary(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.suggestion.GenerateSummary(ctx.Context(), userId, id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate summary", dto.MeetingSummaryResponse{
		Id:              res.Summary.Id,
		SessionNumber:   res.Summary.SessionNumber,
		ShortSummary:    res.Summary.ShortSummary,
		DetailedSummary: res.Summary.DetailedSummary,
		CreatedAt:       res.Summary.CreatedAt,
	}))
}

func (c *meetingController) SetActionStatus(ctx *fiber.Ctx) error {
	userId, err := requireUserId(ctx)
	if err != nil {
		return err
	}
	actionId, err := parseIdParam(ctx, "actionId")
	if err != nil {
		return err
	}

	var req dto.SetActionStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.SetActionStatus(ctx.Context(), userId, actionId, req.Status); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update action status", struct{}{}))
}

func requireUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userId, err := uuid.Parse(serverutils.UserId(ctx))
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return userId, nil
}

func parseIdParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid " + name)
	}
	return id, nil
}
