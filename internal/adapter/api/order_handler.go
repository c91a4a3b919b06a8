package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"agri-advisor/internal/domain/entity"
)

type OrderService interface {
	Place(ctx context.Context, userID string, req entity.PlaceOrderRequest) (*entity.Order, error)
	Get(ctx context.Context, id string) (*entity.Order, error)
	List(ctx context.Context, userID string) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error)
	Delete(ctx context.Context, id string) error
}

type OrderHandler struct {
	orders OrderService
}

func NewOrderHandler(orders OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) HandlePlace(c *fiber.Ctx) error {
	var req entity.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	o, err := h.orders.Place(c.Context(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderHandler) HandleList(c *fiber.Ctx) error {
	orders, err := h.orders.List(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

func (h *OrderHandler) HandleGet(c *fiber.Ctx) error {
	o, err := h.orders.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(o)
}

func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req entity.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	o, err := h.orders.UpdateStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(o)
}

func (h *OrderHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.orders.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
