package services

import (
	"errors"
	"log"
	"time"

	"club-membership-system/models"
	"club-membership-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ShopService struct {
	DB           *gorm.DB
	Progression  *ProgressionService
	Achievements *AchievementService
	Activity     *ActivityService
}

func NewShopService(db *gorm.DB, progression *ProgressionService, achievements *AchievementService, activity *ActivityService) *ShopService {
	return &ShopService{DB: db, Progression: progression, Achievements: achievements, Activity: activity}
}

// --- Admin Handlers ---

// CreateProduct creates a new shop product (Admin only)
func (s *ShopService) CreateProduct(c *fiber.Ctx) error {
	var req struct {
		Name         string               `json:"name" validate:"required"`
		Description  string               `json:"description"`
		Emoji        string               `json:"emoji"`
		Price        int64                `json:"price" validate:"required,min=1"`
		RequiredRank string               `json:"required_rank"`
		Stock        *int                 `json:"stock"`
		Status       models.ProductStatus `json:"status" validate:"required,oneof=draft published archived"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Price < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be at least 1 point"})
	}
	if req.RequiredRank == "" {
		req.RequiredRank = RankBronze
	}
	if rankOrder(req.RequiredRank) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown required_rank"})
	}

	product := &models.Product{
		ID:           uuid.NewString(),
		Slug:         slug.Make(req.Name),
		Name:         req.Name,
		Description:  req.Description,
		Emoji:        req.Emoji,
		Price:        req.Price,
		RequiredRank: req.RequiredRank,
		Stock:        -1,
		Status:       req.Status,
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := s.DB.Create(product).Error; err != nil {
		log.Printf("DB Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create product"})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// UploadProductImage attaches an image to a product, stored on R2 (Admin only)
func (s *ShopService) UploadProductImage(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product models.Product
	if err := s.DB.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image is required"})
	}
	if fileHeader.Size > 10*1024*1024 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image too large (max 10MB)"})
	}

	key := "products/" + product.Slug + "-" + uuid.NewString()[:8]
	url, err := utils.UploadFileToR2(fileHeader, key)
	if err != nil {
		log.Printf("R2 upload failed for product %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload image"})
	}

	if err := s.DB.Model(&product).Update("image_url", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save image URL"})
	}
	return c.JSON(fiber.Map{"image_url": url})
}

// UpdateProduct updates an existing product (Admin only)
func (s *ShopService) UpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var existing models.Product
	if err := s.DB.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req struct {
		Name         *string               `json:"name"`
		Description  *string               `json:"description"`
		Emoji        *string               `json:"emoji"`
		Price        *int64                `json:"price"`
		RequiredRank *string               `json:"required_rank"`
		Stock        *int                  `json:"stock"`
		Status       *models.ProductStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != nil {
		existing.Name = *req.Name
		existing.Slug = slug.Make(*req.Name)
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Emoji != nil {
		existing.Emoji = *req.Emoji
	}
	if req.Price != nil {
		if *req.Price < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be at least 1 point"})
		}
		existing.Price = *req.Price
	}
	if req.RequiredRank != nil {
		if rankOrder(*req.RequiredRank) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown required_rank"})
		}
		existing.RequiredRank = *req.RequiredRank
	}
	if req.Stock != nil {
		existing.Stock = *req.Stock
	}
	if req.Status != nil {
		existing.Status = *req.Status
	}

	if err := s.DB.Save(&existing).Error; err != nil {
		log.Printf("DB Error updating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update product"})
	}
	return c.JSON(existing)
}

// DeleteProduct soft-deletes a product (Admin only)
func (s *ShopService) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var product models.Product
	if err := s.DB.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&product).Error; err != nil {
		log.Printf("DB Error deleting product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete product"})
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// --- Purchase flow ---

// Purchase-specific rejections, surfaced as 4xx by the handler.
var (
	ErrProductUnavailable = errors.New("product not available")
	ErrRankTooLow         = errors.New("rank requirement not met")
	ErrOutOfStock         = errors.New("product out of stock")
)

// Purchase buys a published product for the member. The rank gate applies
// before the balance check: a member below the required tier is rejected no
// matter how many points they hold. Deduction, stock decrement and the
// purchase row land in one transaction; achievement side effects follow
// best-effort once it commits.
func (s *ShopService) Purchase(uid, productID string) (*models.Purchase, error) {
	var record *models.Purchase

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where("id = ? AND status = ?", productID, models.ProductStatusPublished).
			First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductUnavailable
			}
			return err
		}

		var prof models.MemberProfile
		if err := tx.Where("uid = ?", uid).First(&prof).Error; err != nil {
			return err
		}

		if !RankAtLeast(prof.Rank, product.RequiredRank) {
			return ErrRankTooLow
		}
		if product.Stock == 0 {
			return ErrOutOfStock
		}

		if _, err := s.Progression.SpendPoints(tx, uid, product.Price); err != nil {
			return err
		}

		if product.Stock > 0 {
			if err := tx.Model(&product).Update("stock", gorm.Expr("stock - 1")).Error; err != nil {
				return err
			}
		}

		record = &models.Purchase{
			ID:         uuid.NewString(),
			UID:        uid,
			ProductID:  product.ID,
			PointsPaid: product.Price,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	s.afterPurchase(uid)
	return record, nil
}

// afterPurchase fires the purchase achievement evaluation after the
// transaction commits, best-effort.
func (s *ShopService) afterPurchase(uid string) {
	counts, err := s.Activity.CountsFor(uid)
	if err != nil {
		log.Printf("⚠️ counter query failed after purchase for %s: %v", uid, err)
		return
	}
	if err := s.Achievements.Evaluate(uid, models.ProgressEvent{
		Action: models.ActionPurchase,
		Counts: counts,
	}); err != nil {
		log.Printf("⚠️ purchase achievement evaluation failed for %s: %v", uid, err)
	}
}

// ListProducts returns published products, optionally filtered to those the
// member's rank can buy.
func (s *ShopService) ListProducts(rank string, affordableOnly bool, points int64) ([]models.Product, error) {
	var products []models.Product
	q := s.DB.Where("status = ?", models.ProductStatusPublished).Order("price ASC")
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}

	out := products[:0]
	for _, p := range products {
		if rank != "" && !RankAtLeast(rank, p.RequiredRank) {
			continue
		}
		if affordableOnly && p.Price > points {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// PurchaseHistory returns the member's purchases, newest first.
func (s *ShopService) PurchaseHistory(uid string, page, size int) ([]models.Purchase, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	var purchases []models.Purchase
	err := s.DB.Where("uid = ?", uid).
		Preload("Product").
		Order("created_at DESC").
		Limit(size).Offset((page - 1) * size).
		Find(&purchases).Error
	return purchases, err
}

// expireDrafts archives drafts older than the retention window; wired into
// the scheduler alongside mission rotation.
func (s *ShopService) expireDrafts(olderThan time.Duration) {
	cutoff := time.Now().Add(-olderThan)
	res := s.DB.Model(&models.Product{}).
		Where("status = ? AND updated_at < ?", models.ProductStatusDraft, cutoff).
		Update("status", models.ProductStatusArchived)
	if res.Error != nil {
		log.Printf("[Scheduler] draft expiry failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("🗄️ Archived %d stale draft product(s)", res.RowsAffected)
	}
}
