package models

import (
	"time"

	gorm "gorm.io/gorm"
)

// ProductStatus indicates the publishing status of a shop product
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPublished ProductStatus = "published"
	ProductStatusArchived  ProductStatus = "archived"
)

// Product represents an item in the rewards shop. Price is in points;
// RequiredRank gates the purchase independently of the point balance.
type Product struct {
	ID           string        `gorm:"primaryKey;type:uuid" json:"id"`
	Slug         string        `gorm:"uniqueIndex;not null" json:"slug"`
	Name         string        `gorm:"not null" json:"name"`
	Description  string        `gorm:"type:text" json:"description"`
	ImageURL     string        `gorm:"type:text" json:"image_url"`
	Emoji        string        `gorm:"size:10" json:"emoji"`
	Price        int64         `gorm:"not null" json:"price"`
	RequiredRank string        `gorm:"type:varchar(16);default:'bronze'" json:"required_rank"`
	Stock        int           `gorm:"default:-1" json:"stock"` // -1 = unlimited
	Status       ProductStatus `gorm:"not null;default:'draft'" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Purchase records a completed shop transaction.
type Purchase struct {
	ID         string    `gorm:"primaryKey;type:uuid" json:"id"`
	UID        string    `gorm:"index;not null" json:"uid"`
	ProductID  string    `gorm:"index;not null" json:"product_id"`
	PointsPaid int64     `gorm:"not null" json:"points_paid"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
