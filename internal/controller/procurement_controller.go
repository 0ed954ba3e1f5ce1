package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ai-procurement-be/internal/dto"
	"ai-procurement-be/internal/pkg/serverutils"
	"ai-procurement-be/internal/service"
)

type IProcurementController interface {
	RegisterRoutes(r fiber.Router)
	Run(ctx *fiber.Ctx) error
	ListRuns(ctx *fiber.Ctx) error
	ShowRun(ctx *fiber.Ctx) error
}

type procurementController struct {
	procurementService service.IProcurementService
	historyService     service.IHistoryService
}

func NewProcurementController(procurementService service.IProcurementService, historyService service.IHistoryService) IProcurementController {
	return &procurementController{
		procurementService: procurementService,
		historyService:     historyService,
	}
}

func (c *procurementController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/procurement/v1")
	h.Post("runs", c.Run)
	h.Get("runs", c.ListRuns)
	h.Get("runs/:id", c.ShowRun)
}

func (c *procurementController) Run(ctx *fiber.Ctx) error {
	var req dto.RunProcurementRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.procurementService.RunProcurement(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run procurement", res))
}

func (c *procurementController) ListRuns(ctx *fiber.Ctx) error {
	req := dto.ListRunsRequest{
		Category:     ctx.Query("category", ""),
		Step:         ctx.Query("step", ""),
		DegradedOnly: ctx.QueryBool("degraded_only", false),
		Limit:        ctx.QueryInt("limit", 0),
		Offset:       ctx.QueryInt("offset", 0),
	}

	res, err := c.historyService.ListRuns(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list runs", res))
}

func (c *procurementController) ShowRun(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid run id")
	}

	res, err := c.historyService.ShowRun(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show run", res))
}
