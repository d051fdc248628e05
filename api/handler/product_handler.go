package handler

import (
	"errors"
	"net/http"

	"shopapi/api/middleware"
	"shopapi/internal/dto"
	"shopapi/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ProductHandler struct {
	Service  *service.ProductService
	Validate *validator.Validate
}

func NewProductHandler(svc *service.ProductService, validate *validator.Validate) *ProductHandler {
	return &ProductHandler{Service: svc, Validate: validate}
}

func (h *ProductHandler) Create(c echo.Context) error {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.CreateProductRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	product, err := h.Service.Create(c.Request().Context(), accountID, service.CreateProductInput{
		Name:           req.Name,
		Images:         req.Images,
		Description:    req.Description,
		Quantity:       req.Quantity,
		Status:         req.Status,
		Category:       req.Category,
		Color:          req.Color,
		Size:           req.Size,
		Gender:         req.Gender,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ProductResponseFromEntity(product))
}

func (h *ProductHandler) List(c echo.Context) error {
	limit, offset := parseLimitOffset(c)
	products, err := h.Service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ProductResponsesFromEntities(products))
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid product id"))
	}
	product, err := h.Service.Get(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ProductResponseFromEntity(product))
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid product id"))
	}
	var req dto.UpdateProductRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	product, err := h.Service.Update(c.Request().Context(), id, service.UpdateProductInput{
		Name:           req.Name,
		Images:         req.Images,
		Description:    req.Description,
		Quantity:       req.Quantity,
		Status:         req.Status,
		Category:       req.Category,
		Color:          req.Color,
		Size:           req.Size,
		Gender:         req.Gender,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ProductResponseFromEntity(product))
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid product id"))
	}
	if err := h.Service.Delete(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "product deleted successfully"})
}

func (h *ProductHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
