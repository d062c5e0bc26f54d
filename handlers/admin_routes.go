// handlers/admin_routes.go
package handlers

import (
	"club-membership-system/middleware"
	"club-membership-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App, progression *services.ProgressionService, referrals *services.ReferralService) {
	admin := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	admin.Post("/xp/grant", func(c *fiber.Ctx) error {
		var req struct {
			UID    string `json:"uid" validate:"required"`
			XP     int64  `json:"xp" validate:"required,min=1"`
			Reason string `json:"reason" validate:"max=255"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.XP < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "xp must be positive"})
		}

		if _, err := progression.AwardXP(req.UID, req.XP, "admin_grant:"+req.Reason); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "XP grant failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "XP granted successfully", "uid": req.UID, "xp": req.XP})
	})

	admin.Post("/points/grant", func(c *fiber.Ctx) error {
		var req struct {
			UID    string `json:"uid" validate:"required"`
			Points int64  `json:"points" validate:"required,min=1"`
			Reason string `json:"reason" validate:"max=255"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Points < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "points must be positive"})
		}

		if _, err := progression.AwardPoints(req.UID, req.Points, "admin_grant:"+req.Reason); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "points grant failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "points granted successfully", "uid": req.UID, "points": req.Points})
	})

	// Confirms a referral once signup is verified and pays the bonus.
	admin.Post("/referrals/:id/award", func(c *fiber.Ctx) error {
		if err := referrals.AwardReferralBonus(c.Params("id")); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "referral award failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "referral bonus processed"})
	})
}
