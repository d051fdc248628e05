package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrNotVerified        = errors.New("please verify your email before logging in")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired, request a new one")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrAccountNotFound    = errors.New("account not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrDeliveryFailed     = errors.New("email could not be sent")
)
