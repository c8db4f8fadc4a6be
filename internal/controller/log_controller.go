package controller

import (
	"gymbro-be/internal/dto"
	"gymbro-be/internal/pkg/serverutils"
	"gymbro-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILogController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	LogMeal(ctx *fiber.Ctx) error
	LogWorkout(ctx *fiber.Ctx) error
	ByDate(ctx *fiber.Ctx) error
	Recent(ctx *fiber.Ctx) error
}

type logController struct {
	logService service.ILogService
}

func NewLogController(logService service.ILogService) ILogController {
	return &logController{
		logService: logService,
	}
}

func (c *logController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/log/v1", jwtMiddleware)
	h.Post("meal", c.LogMeal)
	h.Post("workout", c.LogWorkout)
	h.Get("by-date", c.ByDate)
	h.Get("recent", c.Recent)
}

func (c *logController) LogMeal(ctx *fiber.Ctx) error {
	var req dto.LogMealRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.logService.LogMeal(ctx.UserContext(), serverutils.Username(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Meal logged", res))
}

func (c *logController) LogWorkout(ctx *fiber.Ctx) error {
	var req dto.LogWorkoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.logService.LogWorkout(ctx.UserContext(), serverutils.Username(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Workout logged", res))
}

func (c *logController) ByDate(ctx *fiber.Ctx) error {
	res, err := c.logService.ByDate(ctx.UserContext(), serverutils.Username(ctx), ctx.Query("date"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Logs retrieved", res))
}

func (c *logController) Recent(ctx *fiber.Ctx) error {
	res, err := c.logService.Recent(ctx.UserContext(), serverutils.Username(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Recent activity retrieved", res))
}
