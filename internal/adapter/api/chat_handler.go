package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"agri-advisor/internal/domain/entity"
)

type ChatService interface {
	Chat(ctx context.Context, req entity.ChatRequest) (*entity.ChatReply, error)
	History(ctx context.Context, userID string) ([]entity.ChatTurn, error)
	ClearHistory(ctx context.Context, userID string) error
	SearchArchive(ctx context.Context, userID, query string, limit int) ([]entity.ArchivedTurn, error)
	Usage(ctx context.Context, userID string) (*entity.UsageReport, error)
}

type ChatHandler struct {
	chat ChatService
}

func NewChatHandler(chat ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req entity.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	reply, err := h.chat.Chat(c.Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(reply)
}

func (h *ChatHandler) HandleHistory(c *fiber.Ctx) error {
	turns, err := h.chat.History(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"turns": turns})
}

func (h *ChatHandler) HandleClearHistory(c *fiber.Ctx) error {
	if err := h.chat.ClearHistory(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ChatHandler) HandleSearch(c *fiber.Ctx) error {
	hits, err := h.chat.SearchArchive(c.Context(), c.Params("id"), c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"results": hits})
}

func (h *ChatHandler) HandleUsage(c *fiber.Ctx) error {
	report, err := h.chat.Usage(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
