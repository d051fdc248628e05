package repository

import (
	"context"
	"errors"
	"time"

	"shopapi/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	FindByLogin(ctx context.Context, login string) (*entity.Account, error)
	Update(ctx context.Context, account *entity.Account) error
	SetVerificationToken(ctx context.Context, id uuid.UUID, tokenHash string) error
	RedeemVerification(ctx context.Context, tokenHash string) (bool, error)
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiry time.Time) error
	ClearResetToken(ctx context.Context, id uuid.UUID) error
	FindByResetToken(ctx context.Context, tokenHash string) (*entity.Account, error)
	CompleteReset(ctx context.Context, id uuid.UUID, tokenHash string, passwordHash string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string) ([]entity.Account, error)
	List(ctx context.Context, limit, offset int) ([]entity.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var account entity.Account
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&account).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var account entity.Account
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&account).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

// FindByLogin matches either the email or the display name, both
// case-insensitively. The caller lowercases the login first.
func (r *accountRepository) FindByLogin(ctx context.Context, login string) (*entity.Account, error) {
	var account entity.Account
	err := r.db.WithContext(ctx).
		Where("email = ? OR LOWER(name) = ?", login, login).
		First(&account).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

func (r *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *accountRepository) SetVerificationToken(ctx context.Context, id uuid.UUID, tokenHash string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("id = ?", id).
		Update("verification_token", tokenHash).
		Error
}

// RedeemVerification flips the account matching the token hash to verified
// and clears the token in one UPDATE. Returns false when no row matched, so
// a second redemption of the same token reports invalid rather than
// succeeding twice.
func (r *accountRepository) RedeemVerification(ctx context.Context, tokenHash string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("verification_token = ?", tokenHash).
		Updates(map[string]any{
			"is_verified":        true,
			"verification_token": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *accountRepository) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiry time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_token":  tokenHash,
			"reset_expiry": expiry,
		}).
		Error
}

func (r *accountRepository) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reset_token":  nil,
			"reset_expiry": nil,
		}).
		Error
}

func (r *accountRepository) FindByResetToken(ctx context.Context, tokenHash string) (*entity.Account, error) {
	var account entity.Account
	err := r.db.WithContext(ctx).
		Where("reset_token = ?", tokenHash).
		First(&account).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &account, err
}

// CompleteReset writes the new hash and clears the reset fields keyed on both
// the id and the token hash, so two racing redemptions of one link resolve to
// a single winner.
func (r *accountRepository) CompleteReset(ctx context.Context, id uuid.UUID, tokenHash string, passwordHash string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("id = ? AND reset_token = ?", id, tokenHash).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"reset_token":   nil,
			"reset_expiry":  nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Account{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).
		Error
}

func (r *accountRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.Account{}).
		Error
}

func (r *accountRepository) Search(ctx context.Context, query string) ([]entity.Account, error) {
	var accounts []entity.Account
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR email ILIKE ?", pattern, pattern).
		Order("created_at DESC").
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *accountRepository) List(ctx context.Context, limit, offset int) ([]entity.Account, error) {
	var accounts []entity.Account
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
