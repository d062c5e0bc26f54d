// handlers/activity_routes.go
package handlers

import (
	"errors"
	"strconv"

	"club-membership-system/middleware"
	"club-membership-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupActivityRoutes(app *fiber.App, activity *services.ActivityService) {
	secured := app.Group("/s", middleware.UserContextMiddleware())

	secured.Get("/posts", func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))

		posts, err := activity.ListPosts(page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list posts",
				"cause": err.Error(),
			})
		}
		return c.JSON(posts)
	})

	secured.Post("/posts", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			Body     string `json:"body" validate:"required,max=4000"`
			ImageURL string `json:"image_url"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Body == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body is required"})
		}

		post, err := activity.CreatePost(userID, req.Body, req.ImageURL)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create post",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(post)
	})

	// Post images are stored on local disk and served from /uploads;
	// only shop/product media goes to R2.
	secured.Post("/posts/:id/image", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		postID := c.Params("id")

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image is required"})
		}
		if fileHeader.Size > 10*1024*1024 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image too large (max 10MB)"})
		}

		imageURL, err := activity.AttachPostImage(userID, postID, fileHeader)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "post not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to attach image",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"image_url": imageURL})
	})

	secured.Post("/posts/:id/like", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		postID := c.Params("id")

		if err := activity.LikePost(userID, postID); err != nil {
			switch {
			case errors.Is(err, services.ErrAlreadyLiked):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "already liked"})
			case errors.Is(err, gorm.ErrRecordNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "post not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to like post",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"message": "liked"})
	})
}
