package controller

import (
	"github.com/gofiber/fiber/v2"

	"super-rag-be/internal/dto"
	"super-rag-be/internal/service"
)

type IIngestionController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
}

type ingestionController struct {
	ingestionService service.IIngestionService
}

func NewIngestionController(ingestionService service.IIngestionService) IIngestionController {
	return &ingestionController{
		ingestionService: ingestionService,
	}
}

func (c *ingestionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ingestion/v1")
	h.Post("ingest", c.Ingest)
}

func (c *ingestionController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	res, err := c.ingestionService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
