package controller

import (
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"amplified-be/internal/livesession"
	"amplified-be/internal/pkg/logger"
	"amplified-be/internal/pkg/serverutils"
	"amplified-be/internal/repository/memory"
	"amplified-be/internal/service"
	internalWS "amplified-be/internal/websocket"
)

type ILiveController interface {
	RegisterRoutes(r fiber.Router)
	ServeWs(ctx *fiber.Ctx) error
	Sessions(ctx *fiber.Ctx) error
}

type liveController struct {
	hub               *internalWS.Hub
	meetingService    service.IMeetingService
	suggestionService service.ISuggestionService
	voiceService      service.IVoiceService
	registry          *memory.LiveSessionRepository
	logger            logger.ILogger
}

func NewLiveController(
	hub *internalWS.Hub,
	meetingService service.IMeetingService,
	suggestionService service.ISuggestionService,
	voiceService service.IVoiceService,
	registry *memory.LiveSessionRepository,
	log logger.ILogger,
) ILiveController {
	return &liveController{
		hub:               hub,
		meetingService:    meetingService,
		suggestionService: suggestionService,
		voiceService:      voiceService,
		registry:          registry,
		logger:            log,
	}
}

func (c *liveController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/live/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/ws", c.ServeWs)
	h.Get("/sessions", c.Sessions)
}

// ServeWs upgrades the connection and binds a fresh session manager to it.
// Tokens arrive via query param because browsers cannot set headers on
// websocket requests.
func (c *liveController) ServeWs(ctx *fiber.Ctx) error {
	userID, err := uuid.Parse(serverutils.UserId(ctx))
	if err != nil {
		return fiber.ErrUnauthorized
	}

	if !fiberws.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	// The voice profile labels the caller's own speech in the transcript.
	// No profile is fine, the manager falls back to a generic label.
	speaker := ""
	if profile, err := c.voiceService.GetProfile(ctx.Context(), userID); err == nil {
		speaker = profile.DisplayName
	}

	return fiberws.New(func(conn *fiberws.Conn) {
		c.logger.Info("LiveController", "Starting live session socket", map[string]interface{}{"user_id": userID})
		internalWS.ServeWs(c.hub, conn, userID, func(client *internalWS.Client) internalWS.CommandHandler {
			return livesession.NewManager(
				userID,
				speaker,
				c.meetingService,
				c.suggestionService,
				c.registry,
				c.logger,
				client.SendEvent,
			)
		})
		c.logger.Info("LiveController", "Live session socket ended", map[string]interface{}{"user_id": userID})
	})(ctx)
}

// Sessions lists this user's active live sessions from the memory registry.
func (c *liveController) Sessions(ctx *fiber.Ctx) error {
	userID := serverutils.UserId(ctx)

	all := c.registry.All()
	mine := all[:0:0]
	for _, s := range all {
		if s.UserID == userID {
			mine = append(mine, s)
		}
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get live sessions", mine))
}
