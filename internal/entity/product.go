package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProductStatus string

const (
	ProductAvailable  ProductStatus = "available"
	ProductOutOfStock ProductStatus = "out of stock"
)

type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;index"`
	Account   Account   `gorm:"constraint:OnDelete:CASCADE"`

	Name        string                      `gorm:"type:varchar(255);not null"`
	Images      datatypes.JSONSlice[string] `gorm:"not null"`
	Description string                      `gorm:"type:text;not null"`
	Quantity    int                         `gorm:"not null"`
	Status      ProductStatus               `gorm:"type:varchar(16);default:'available';not null"`
	Category    string                      `gorm:"type:varchar(255);not null"`
	Color       string                      `gorm:"type:varchar(64)"`
	Size        string                      `gorm:"type:varchar(64)"`
	Gender      string                      `gorm:"type:varchar(32)"`

	Price          float64 `gorm:"not null"`
	CompareAtPrice float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
