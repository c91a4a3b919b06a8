package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"agri-advisor/internal/domain/entity"
)

type LandService interface {
	Create(ctx context.Context, userID string, in entity.LandInput) (*entity.Land, error)
	Get(ctx context.Context, id string) (*entity.Land, error)
	List(ctx context.Context, userID string) ([]*entity.Land, error)
	Update(ctx context.Context, id string, in entity.LandInput) (*entity.Land, error)
	Delete(ctx context.Context, id string) error
}

type LandHandler struct {
	lands LandService
}

func NewLandHandler(lands LandService) *LandHandler {
	return &LandHandler{lands: lands}
}

func (h *LandHandler) HandleCreate(c *fiber.Ctx) error {
	var in entity.LandInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	l, err := h.lands.Create(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(l)
}

func (h *LandHandler) HandleList(c *fiber.Ctx) error {
	lands, err := h.lands.List(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"lands": lands})
}

func (h *LandHandler) HandleGet(c *fiber.Ctx) error {
	l, err := h.lands.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(l)
}

func (h *LandHandler) HandleUpdate(c *fiber.Ctx) error {
	var in entity.LandInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	l, err := h.lands.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(l)
}

func (h *LandHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.lands.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
