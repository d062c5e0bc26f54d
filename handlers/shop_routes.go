// handlers/shop_routes.go
package handlers

import (
	"errors"
	"strconv"

	"club-membership-system/middleware"
	"club-membership-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupShopRoutes(app *fiber.App, shop *services.ShopService, progression *services.ProgressionService) {
	// Public storefront listing
	app.Get("/shop/products", func(c *fiber.Ctx) error {
		products, err := shop.ListProducts("", false, 0)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list products",
				"cause": err.Error(),
			})
		}
		return c.JSON(products)
	})

	secured := app.Group("/s", middleware.UserContextMiddleware())

	// Listing filtered to what the member can actually buy
	secured.Get("/shop/products", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		affordable := c.Query("affordable") == "true"

		prof, err := progression.GetProfile(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load profile",
				"cause": err.Error(),
			})
		}

		products, err := shop.ListProducts(prof.Rank, affordable, prof.Points)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list products",
				"cause": err.Error(),
			})
		}
		return c.JSON(products)
	})

	secured.Post("/shop/purchase", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var req struct {
			ProductID string `json:"product_id" validate:"required,uuid"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		purchase, err := shop.Purchase(userID, req.ProductID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrProductUnavailable):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not available"})
			case errors.Is(err, services.ErrRankTooLow):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "rank requirement not met"})
			case errors.Is(err, services.ErrOutOfStock):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "product out of stock"})
			case errors.Is(err, services.ErrInsufficientPoints):
				return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": "insufficient points"})
			case errors.Is(err, gorm.ErrRecordNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "purchase failed",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(purchase)
	})

	secured.Get("/shop/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))

		history, err := shop.PurchaseHistory(userID, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get purchase history",
				"cause": err.Error(),
			})
		}
		return c.JSON(history)
	})

	// Admin product management
	admin := app.Group("/s/admin/shop", middleware.UserContextMiddleware(), middleware.RequireAdmin())
	admin.Post("/products", shop.CreateProduct)
	admin.Put("/products/:id", shop.UpdateProduct)
	admin.Delete("/products/:id", shop.DeleteProduct)
	admin.Post("/products/:id/image", shop.UploadProductImage)
}
