// handlers/progression_routes.go
package handlers

import (
	"errors"
	"time"

	"club-membership-system/middleware"
	"club-membership-system/models"
	"club-membership-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupProgressionRoutes(app *fiber.App, progression *services.ProgressionService, achievements *services.AchievementService, referrals *services.ReferralService) {
	// Public: the achievement catalog is static and member-independent.
	app.Get("/achievements/catalog", func(c *fiber.Ctx) error {
		return c.JSON(models.AchievementCatalog)
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/user/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		username, _ := c.Locals("username").(string)

		prof, err := progression.GetProfile(userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			prof, err = progression.EnsureProfile(userID, username)
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load profile",
				"cause": err.Error(),
			})
		}

		progress := services.XPToNextLevel(prof.XP)
		return c.JSON(fiber.Map{
			"uid":              prof.UID,
			"username":         prof.Username,
			"points":           prof.Points,
			"xp":               prof.XP,
			"level":            prof.Level,
			"rank":             prof.Rank,
			"streak_days":      prof.StreakDays,
			"streak_bonus":     services.BonusMultiplier(prof.StreakDays),
			"level_progress":   progress,
			"last_level_up_at": prof.LastLevelUpAt,
			"last_rank_up_at":  prof.LastRankUpAt,
		})
	})

	// Called by the gateway right after account creation. Idempotent;
	// an optional referral code links the new member to their referrer.
	secured.Post("/user/signup", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		username, _ := c.Locals("username").(string)

		var req struct {
			ReferrerUID  string `json:"referrer_uid"`
			ReferralCode string `json:"referral_code"`
		}
		_ = c.BodyParser(&req) // body is optional

		prof, err := progression.EnsureProfile(userID, username)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create profile",
				"cause": err.Error(),
			})
		}

		if req.ReferrerUID != "" {
			if _, err := referrals.RecordReferral(req.ReferrerUID, userID, req.ReferralCode); err != nil &&
				!errors.Is(err, services.ErrAlreadyReferred) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "failed to record referral",
					"cause": err.Error(),
				})
			}
		}
		return c.Status(fiber.StatusCreated).JSON(prof)
	})

	secured.Get("/user/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		list, err := achievements.ListForMember(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get achievements",
				"cause": err.Error(),
			})
		}
		return c.JSON(list)
	})

	// Checkin records today's activity for the streak without any other
	// side effect; the dashboard calls it on load.
	secured.Post("/user/checkin", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		prof, err := progression.TouchStreak(userID, time.Now())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "checkin failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"streak_days":  prof.StreakDays,
			"streak_bonus": services.BonusMultiplier(prof.StreakDays),
		})
	})
}
