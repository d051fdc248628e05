package service

import (
	"time"

	"shopapi/internal/entity"
	"shopapi/internal/utils"
)

type JWTSessionIssuer struct {
	Manager *utils.JWTManager
}

func (j JWTSessionIssuer) IssueSessionToken(account entity.Account) (string, time.Duration, error) {
	if j.Manager == nil {
		return "", 0, ErrInvalidToken
	}
	return j.Manager.IssueSessionToken(account.ID.String(), string(account.Role))
}
