package dto

import (
	"time"

	"shopapi/internal/entity"
)

type CreateProductRequest struct {
	Name           string   `json:"product_name" validate:"required,min=1,max=255"`
	Images         []string `json:"images" validate:"required,min=1,dive,required"`
	Description    string   `json:"description" validate:"required"`
	Quantity       int      `json:"quantity" validate:"gte=0"`
	Status         string   `json:"status" validate:"omitempty,oneof=available 'out of stock'"`
	Category       string   `json:"category" validate:"required"`
	Color          string   `json:"color"`
	Size           string   `json:"size"`
	Gender         string   `json:"gender"`
	Price          float64  `json:"price" validate:"gte=0"`
	CompareAtPrice float64  `json:"compare_at_price" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name           *string  `json:"product_name" validate:"omitempty,min=1,max=255"`
	Images         []string `json:"images" validate:"omitempty,dive,required"`
	Description    *string  `json:"description"`
	Quantity       *int     `json:"quantity" validate:"omitempty,gte=0"`
	Status         *string  `json:"status" validate:"omitempty,oneof=available 'out of stock'"`
	Category       *string  `json:"category"`
	Color          *string  `json:"color"`
	Size           *string  `json:"size"`
	Gender         *string  `json:"gender"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	CompareAtPrice *float64 `json:"compare_at_price" validate:"omitempty,gte=0"`
}

type ProductResponse struct {
	ID             string    `json:"id"`
	AccountID      string    `json:"account_id"`
	Name           string    `json:"product_name"`
	Images         []string  `json:"images"`
	Description    string    `json:"description"`
	Quantity       int       `json:"quantity"`
	Status         string    `json:"status"`
	Category       string    `json:"category"`
	Color          string    `json:"color,omitempty"`
	Size           string    `json:"size,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	Price          float64   `json:"price"`
	CompareAtPrice float64   `json:"compare_at_price"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ProductResponseFromEntity(product *entity.Product) ProductResponse {
	return ProductResponse{
		ID:             product.ID.String(),
		AccountID:      product.AccountID.String(),
		Name:           product.Name,
		Images:         product.Images,
		Description:    product.Description,
		Quantity:       product.Quantity,
		Status:         string(product.Status),
		Category:       product.Category,
		Color:          product.Color,
		Size:           product.Size,
		Gender:         product.Gender,
		Price:          product.Price,
		CompareAtPrice: product.CompareAtPrice,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}

func ProductResponsesFromEntities(products []entity.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ProductResponseFromEntity(&products[i]))
	}
	return responses
}
