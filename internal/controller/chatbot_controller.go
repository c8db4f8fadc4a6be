package controller

import (
	"gymbro-be/internal/dto"
	"gymbro-be/internal/pkg/serverutils"
	"gymbro-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	SendChat(ctx *fiber.Ctx) error
	ResetConversation(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/gymbro/v1", jwtMiddleware)
	h.Post("chat", c.SendChat)
	h.Post("reset", c.ResetConversation)
}

func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	// Whitespace-only messages pass here; the service rejects them as empty.
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.SendChat(ctx.UserContext(), serverutils.Username(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatbotController) ResetConversation(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.ResetConversation(ctx.UserContext(), serverutils.Username(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Conversation reset", res))
}
