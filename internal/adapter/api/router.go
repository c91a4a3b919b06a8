package api

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Handlers struct {
	Chat     *ChatHandler
	Advice   *AdviceHandler
	Accounts *AccountHandler
	Lands    *LandHandler
	Orders   *OrderHandler
}

func SetupRouter(app *fiber.App, h Handlers) {
	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": os.Getenv("APP_VERSION"),
			"env":     os.Getenv("ENV"),
		})
	})

	// API Versioning
	v1 := app.Group("/v1")

	v1.Post("/chat", h.Chat.HandleChat)
	v1.Post("/recommendations", h.Advice.HandleRecommend)

	v1.Post("/users", h.Accounts.HandleRegister)
	v1.Post("/users/login", h.Accounts.HandleLogin)

	v1.Get("/users/:id", h.Accounts.HandleGet)
	v1.Patch("/users/:id", h.Accounts.HandleUpdate)
	v1.Delete("/users/:id", h.Accounts.HandleDelete)
	v1.Get("/users/:id/usage", h.Chat.HandleUsage)
	v1.Get("/users/:id/chat", h.Chat.HandleHistory)
	v1.Delete("/users/:id/chat", h.Chat.HandleClearHistory)
	v1.Get("/users/:id/chat/search", h.Chat.HandleSearch)
	v1.Post("/users/:id/lands", h.Lands.HandleCreate)
	v1.Get("/users/:id/lands", h.Lands.HandleList)
	v1.Post("/users/:id/orders", h.Orders.HandlePlace)
	v1.Get("/users/:id/orders", h.Orders.HandleList)

	v1.Get("/lands/:id", h.Lands.HandleGet)
	v1.Put("/lands/:id", h.Lands.HandleUpdate)
	v1.Delete("/lands/:id", h.Lands.HandleDelete)
	v1.Post("/lands/:id/advice", h.Advice.HandleLandAdvice)

	v1.Get("/orders/:id", h.Orders.HandleGet)
	v1.Delete("/orders/:id", h.Orders.HandleDelete)
	v1.Patch("/orders/:id/status", h.Orders.HandleUpdateStatus)
}
