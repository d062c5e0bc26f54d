// handlers/mission_routes.go
package handlers

import (
	"errors"

	"club-membership-system/middleware"
	"club-membership-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMissionRoutes(app *fiber.App, missions *services.MissionService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/missions/today", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		list, err := missions.TodaysMissions(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list missions",
				"cause": err.Error(),
			})
		}
		return c.JSON(list)
	})

	secured.Post("/missions/:id/complete", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		missionID := c.Params("id")

		completion, err := missions.CompleteMission(userID, missionID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissionNotActive):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "mission not active today"})
			case errors.Is(err, services.ErrMissionAlreadyCompleted):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "mission already completed today"})
			case errors.Is(err, gorm.ErrRecordNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to complete mission",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(completion)
	})
}
