package service

import (
	"context"
	"strings"

	"shopapi/internal/entity"
	"shopapi/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

type CreateProductInput struct {
	Name           string
	Images         []string
	Description    string
	Quantity       int
	Status         string
	Category       string
	Color          string
	Size           string
	Gender         string
	Price          float64
	CompareAtPrice float64
}

type UpdateProductInput struct {
	Name           *string
	Images         []string
	Description    *string
	Quantity       *int
	Status         *string
	Category       *string
	Color          *string
	Size           *string
	Gender         *string
	Price          *float64
	CompareAtPrice *float64
}

func (s *ProductService) Create(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*entity.Product, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Category) == "" {
		return nil, ErrInvalidInput
	}
	if input.Quantity < 0 || input.Price < 0 {
		return nil, ErrInvalidInput
	}

	status := entity.ProductStatus(input.Status)
	if status == "" {
		status = entity.ProductAvailable
	}

	product := &entity.Product{
		AccountID:      ownerID,
		Name:           strings.TrimSpace(input.Name),
		Images:         datatypes.NewJSONSlice(input.Images),
		Description:    input.Description,
		Quantity:       input.Quantity,
		Status:         status,
		Category:       input.Category,
		Color:          input.Color,
		Size:           input.Size,
		Gender:         input.Gender,
		Price:          input.Price,
		CompareAtPrice: input.CompareAtPrice,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, limit, offset int) ([]entity.Product, error) {
	return s.products.List(ctx, limit, offset)
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*entity.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidInput
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Images != nil {
		product.Images = datatypes.NewJSONSlice(input.Images)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, ErrInvalidInput
		}
		product.Quantity = *input.Quantity
	}
	if input.Status != nil {
		product.Status = entity.ProductStatus(*input.Status)
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Color != nil {
		product.Color = *input.Color
	}
	if input.Size != nil {
		product.Size = *input.Size
	}
	if input.Gender != nil {
		product.Gender = *input.Gender
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrInvalidInput
		}
		product.Price = *input.Price
	}
	if input.CompareAtPrice != nil {
		product.CompareAtPrice = *input.CompareAtPrice
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProductNotFound
	}
	return nil
}
