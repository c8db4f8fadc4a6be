package controller

import (
	"gymbro-be/internal/dto"
	"gymbro-be/internal/pkg/serverutils"
	"gymbro-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProfileController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Show(ctx *fiber.Ctx) error
	UpdateGoal(ctx *fiber.Ctx) error
}

type profileController struct {
	profileService service.IProfileService
}

func NewProfileController(profileService service.IProfileService) IProfileController {
	return &profileController{
		profileService: profileService,
	}
}

func (c *profileController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/profile/v1", jwtMiddleware)
	h.Get("", c.Show)
	h.Put("goal", c.UpdateGoal)
}

func (c *profileController) Show(ctx *fiber.Ctx) error {
	res, err := c.profileService.GetProfile(ctx.UserContext(), serverutils.Username(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show profile", res))
}

func (c *profileController) UpdateGoal(ctx *fiber.Ctx) error {
	var req dto.UpdateGoalRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.profileService.UpdateGoal(ctx.UserContext(), serverutils.Username(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Goal updated", res))
}
