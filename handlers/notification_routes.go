// handlers/notification_routes.go
package handlers

import (
	"club-membership-system/middleware"
	"club-membership-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App, notifications *services.NotificationService, authClient *services.AuthServiceClient) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/user/notifications", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		list, err := notifications.ListUnseen(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list notifications",
				"cause": err.Error(),
			})
		}
		return c.JSON(list)
	})

	secured.Post("/user/notifications/seen", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			IDs []string `json:"ids" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		if err := notifications.MarkSeen(userID, req.IDs); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to mark notifications seen",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "ok"})
	})

	// SSE stream authenticates via query params since EventSource cannot
	// send the gateway headers.
	app.Get("/user/notifications/stream", middleware.SSEAuthMiddleware(authClient), notifications.StreamSSE)
}
