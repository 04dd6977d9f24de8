package controller

import (
	"ai-docqa-be/internal/dto"
	"ai-docqa-be/internal/pkg/serverutils"
	"ai-docqa-be/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type IQueryController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type queryController struct {
	service  service.IQueryService
	validate *validator.Validate
}

func NewQueryController(svc service.IQueryService) IQueryController {
	return &queryController{
		service:  svc,
		validate: validator.New(),
	}
}

func (c *queryController) RegisterRoutes(r fiber.Router) {
	r.Post("/query", c.Query)
	r.Get("/health", c.Health)
}

func (c *queryController) Query(ctx *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := c.validate.Struct(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "question is required (3-2000 characters)"))
	}

	res, err := c.service.Answer(ctx.Context(), req.Question)
	if err != nil {
		return ctx.Status(serverutils.StatusForError(err)).JSON(serverutils.FailureBody(err))
	}

	resp := dto.QueryResponse{
		Answer:  res.Answer,
		Sources: make([]dto.SourceDTO, 0, len(res.Sources)),
	}
	for _, s := range res.Sources {
		resp.Sources = append(resp.Sources, dto.SourceDTO{
			DocumentId: s.DocumentID,
			Similarity: s.Similarity,
		})
	}
	return ctx.JSON(resp)
}

func (c *queryController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}
