// handlers/leaderboard_routes.go
package handlers

import (
	"strconv"

	"club-membership-system/middleware"
	"club-membership-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App, leaderboard *services.LeaderboardService) {
	// Public top-N
	app.Get("/leaderboard/top", func(c *fiber.Ctx) error {
		n, _ := strconv.ParseInt(c.Query("n", "10"), 10, 64)

		entries, err := leaderboard.Top(n)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load leaderboard",
				"cause": err.Error(),
			})
		}
		return c.JSON(entries)
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	// The member's own window, ±5 spots (dashboard widget)
	secured.Get("/leaderboard/me", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		pos, err := leaderboard.Position(userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not on leaderboard"})
		}

		around, err := leaderboard.Around(userID, 5)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load leaderboard window",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"position": pos,
			"entries":  around,
		})
	})
}
