package controller

import (
	"github.com/gofiber/fiber/v2"

	"ai-procurement-be/internal/pkg/serverutils"
	"ai-procurement-be/internal/service"
)

type IMonitorController interface {
	RegisterRoutes(r fiber.Router)
	Stats(ctx *fiber.Ctx) error
	Breakers(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type monitorController struct {
	monitorService service.IMonitorService
}

func NewMonitorController(monitorService service.IMonitorService) IMonitorController {
	return &monitorController{
		monitorService: monitorService,
	}
}

func (c *monitorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/monitor/v1")
	h.Get("health", c.Health)
	// Detailed counters are for operators only.
	h.Get("stats", serverutils.JwtMiddleware, c.Stats)
	h.Get("breakers", serverutils.JwtMiddleware, c.Breakers)
}

func (c *monitorController) Breakers(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get breaker states", c.monitorService.Breakers()))
}

func (c *monitorController) Stats(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get system stats", c.monitorService.Stats()))
}

func (c *monitorController) Health(ctx *fiber.Ctx) error {
	res := c.monitorService.Health()
	status := fiber.StatusOK
	if res.Status == "UNHEALTHY" {
		status = fiber.StatusServiceUnavailable
	}
	return ctx.Status(status).JSON(serverutils.SuccessResponse("Success get health", res))
}
