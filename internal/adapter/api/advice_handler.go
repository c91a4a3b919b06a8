package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"agri-advisor/internal/domain/entity"
)

type AdviceService interface {
	Recommend(ctx context.Context, req entity.RecommendationRequest) (*entity.Recommendation, error)
	AdviseLand(ctx context.Context, landID string) (*entity.Recommendation, error)
}

type AdviceHandler struct {
	advisor AdviceService
}

func NewAdviceHandler(advisor AdviceService) *AdviceHandler {
	return &AdviceHandler{advisor: advisor}
}

func (h *AdviceHandler) HandleRecommend(c *fiber.Ctx) error {
	var req entity.RecommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	rec, err := h.advisor.Recommend(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

func (h *AdviceHandler) HandleLandAdvice(c *fiber.Ctx) error {
	rec, err := h.advisor.AdviseLand(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}
