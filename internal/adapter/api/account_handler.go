package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"agri-advisor/internal/domain/entity"
)

type AccountService interface {
	Register(ctx context.Context, req entity.RegisterUserRequest) (*entity.User, error)
	Authenticate(ctx context.Context, req entity.LoginRequest) (*entity.User, error)
	Get(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, id string, req entity.UpdateUserRequest) (*entity.User, error)
	Delete(ctx context.Context, id string) error
}

type AccountHandler struct {
	accounts AccountService
}

func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) HandleRegister(c *fiber.Ctx) error {
	var req entity.RegisterUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	u, err := h.accounts.Register(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *AccountHandler) HandleLogin(c *fiber.Ctx) error {
	var req entity.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	u, err := h.accounts.Authenticate(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(u)
}

func (h *AccountHandler) HandleGet(c *fiber.Ctx) error {
	u, err := h.accounts.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(u)
}

func (h *AccountHandler) HandleUpdate(c *fiber.Ctx) error {
	var req entity.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	u, err := h.accounts.Update(c.Context(), c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(u)
}

func (h *AccountHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.accounts.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
