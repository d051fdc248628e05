package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRole string

const (
	AccountRoleUser  AccountRole = "user"
	AccountRoleStaff AccountRole = "staff"
	AccountRoleAdmin AccountRole = "admin"
)

// Account is a registered identity. PasswordHash is only ever written by the
// password hasher; VerificationToken and ResetToken hold sha256 digests of the
// raw tokens, never the tokens themselves.
type Account struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string      `gorm:"type:varchar(255);not null;index"`
	Email        string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string      `gorm:"type:text;not null"`
	Role         AccountRole `gorm:"type:varchar(16);default:'user';not null"`
	Photo        string      `gorm:"type:text"`

	IsVerified        bool    `gorm:"default:false;not null"`
	VerificationToken *string `gorm:"type:text;index"`

	ResetToken  *string `gorm:"type:text;index"`
	ResetExpiry *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Products []Product
}
