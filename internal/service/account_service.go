package service

import (
	"context"
	"strings"

	"shopapi/internal/entity"
	"shopapi/internal/repository"
	"shopapi/internal/utils"

	"github.com/google/uuid"
)

type AccountService struct {
	accounts     repository.AccountRepository
	passwordHash PasswordHasher
}

func NewAccountService(accounts repository.AccountRepository, passwordHash PasswordHasher) *AccountService {
	return &AccountService{accounts: accounts, passwordHash: passwordHash}
}

type UpdateProfileInput struct {
	Name  *string
	Email *string
	Photo *string
}

func (s *AccountService) GetProfile(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// UpdateProfile applies the provided fields only; a changed email must not
// collide with another account.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID uuid.UUID, input UpdateProfileInput) (*entity.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		account.Name = name
	}

	if input.Email != nil {
		email := utils.NormalizeEmail(*input.Email)
		if email != account.Email {
			other, err := s.accounts.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != account.ID {
				return nil, ErrEmailTaken
			}
			account.Email = email
		}
	}

	if input.Photo != nil {
		account.Photo = *input.Photo
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) DeleteProfilePhoto(ctx context.Context, accountID uuid.UUID) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	account.Photo = ""
	return s.accounts.Update(ctx, account)
}

func (s *AccountService) Search(ctx context.Context, query string) ([]entity.Account, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidInput
	}
	return s.accounts.Search(ctx, strings.TrimSpace(query))
}

// Delete soft-deletes the account after re-verifying the current password.
// Soft-deleted rows are excluded from every lookup, login included.
func (s *AccountService) Delete(ctx context.Context, accountID uuid.UUID, currentPassword string) error {
	if strings.TrimSpace(currentPassword) == "" {
		return ErrInvalidInput
	}

	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}

	if !s.passwordHash.Verify(account.PasswordHash, currentPassword) {
		return ErrWrongPassword
	}

	return s.accounts.SoftDelete(ctx, account.ID)
}

func (s *AccountService) List(ctx context.Context, limit, offset int) ([]entity.Account, error) {
	return s.accounts.List(ctx, limit, offset)
}
