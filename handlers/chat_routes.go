// handlers/chat_routes.go
package handlers

import (
	"strconv"

	"club-membership-system/middleware"
	"club-membership-system/services"

	"github.com/gofiber/fiber/v2"
)

// Chat history and presence over the regular HTTP API; the live socket is
// served by the hub's own listener (see main.go).
func SetupChatRoutes(app *fiber.App, chat *services.ChatHub) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/chat/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		otherUID := c.Query("with") // empty = global room
		limit, _ := strconv.Atoi(c.Query("limit", "50"))

		msgs, err := chat.History(userID, otherUID, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load chat history",
				"cause": err.Error(),
			})
		}
		return c.JSON(msgs)
	})

	secured.Get("/chat/online", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"online": chat.Online()})
	})
}
