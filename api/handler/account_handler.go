package handler

import (
	"errors"
	"net/http"

	"shopapi/api/middleware"
	"shopapi/internal/dto"
	"shopapi/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AccountHandler struct {
	Service  *service.AccountService
	Validate *validator.Validate
}

func NewAccountHandler(svc *service.AccountService, validate *validator.Validate) *AccountHandler {
	return &AccountHandler{Service: svc, Validate: validate}
}

func (h *AccountHandler) GetProfile(c echo.Context) error {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	account, err := h.Service.GetProfile(c.Request().Context(), accountID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.AccountResponseFromEntity(account))
}

func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.UpdateProfileRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	account, err := h.Service.UpdateProfile(c.Request().Context(), accountID, service.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
		Photo: req.Photo,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.AccountResponseFromEntity(account))
}

func (h *AccountHandler) DeleteProfilePhoto(c echo.Context) error {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	if err := h.Service.DeleteProfilePhoto(c.Request().Context(), accountID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "profile photo deleted successfully"})
}

func (h *AccountHandler) Search(c echo.Context) error {
	accounts, err := h.Service.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.AccountResponsesFromEntities(accounts))
}

// DeleteAccount soft-deletes the caller's account after re-verifying the
// current password.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.DeleteAccountRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Service.Delete(c.Request().Context(), accountID, req.Password); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "account deleted successfully"})
}

func (h *AccountHandler) AdminListAccounts(c echo.Context) error {
	limit, offset := parseLimitOffset(c)
	accounts, err := h.Service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.AccountResponsesFromEntities(accounts))
}

func (h *AccountHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}
