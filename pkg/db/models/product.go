package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a purchasable menu entry. Price is in Toman.
type Product struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	Price       int       `gorm:"column:price;not null"`
	CategoryID  uuid.UUID `gorm:"column:category_id;type:uuid;not null;index"`
	ImageURL    *string   `gorm:"column:image_url"`
	Available   bool      `gorm:"column:available;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
