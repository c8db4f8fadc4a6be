package controller

import (
	"gymbro-be/internal/pkg/serverutils"
	"gymbro-be/internal/service"
	internalWS "gymbro-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const localsUserID = "feed_user_id"

// IFeedController streams ACTIVITY_LOGGED events to the owner's open sessions.
type IFeedController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Upgrade(ctx *fiber.Ctx) error
	Stream(conn *websocket.Conn)
}

type feedController struct {
	hub            *internalWS.Hub
	profileService service.IProfileService
}

func NewFeedController(hub *internalWS.Hub, profileService service.IProfileService) IFeedController {
	return &feedController{
		hub:            hub,
		profileService: profileService,
	}
}

func (c *feedController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/feed/v1", tokenFromQuery, jwtMiddleware)
	h.Get("ws", c.Upgrade, websocket.New(c.Stream))
}

// tokenFromQuery lets browsers, which cannot set headers on a websocket
// handshake, pass the JWT as ?token=.
func tokenFromQuery(ctx *fiber.Ctx) error {
	if ctx.Get(fiber.HeaderAuthorization) == "" {
		if token := ctx.Query("token"); token != "" {
			ctx.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
	}
	return ctx.Next()
}

func (c *feedController) Upgrade(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	profile, err := c.profileService.GetProfile(ctx.UserContext(), serverutils.Username(ctx))
	if err != nil {
		return err
	}
	ctx.Locals(localsUserID, profile.Id)
	return ctx.Next()
}

func (c *feedController) Stream(conn *websocket.Conn) {
	userID, _ := conn.Locals(localsUserID).(uuid.UUID)
	internalWS.NewClient(c.hub, conn, userID).Serve()
}
