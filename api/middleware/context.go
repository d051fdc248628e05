package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contextAccountIDKey = "auth_account_id"
	contextRoleKey      = "auth_role"
)

func SetAuthContext(c echo.Context, accountID uuid.UUID, role string) {
	c.Set(contextAccountIDKey, accountID)
	c.Set(contextRoleKey, role)
}

func AccountIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(contextAccountIDKey)
	accountID, ok := value.(uuid.UUID)
	return accountID, ok
}

func RoleFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextRoleKey)
	role, ok := value.(string)
	return role, ok
}
