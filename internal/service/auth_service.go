package service

import (
	"context"
	"strings"
	"time"

	"shopapi/internal/entity"
	"shopapi/internal/repository"
	"shopapi/internal/utils"

	"github.com/google/uuid"
)

// Kept warm so login takes the same bcrypt cost whether or not the login key
// matches an account.
const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

const verificationTokenBytes = 32
const resetTokenBytes = 32

type AuthService struct {
	accounts repository.AccountRepository

	emailSender   EmailSender
	passwordHash  PasswordHasher
	sessionTokens SessionTokenIssuer
	clock         Clock
	config        AuthConfig
}

func NewAuthService(
	accounts repository.AccountRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	sessionTokens SessionTokenIssuer,
	clock Clock,
	config AuthConfig,
) *AuthService {
	return &AuthService{
		accounts:      accounts,
		emailSender:   emailSender,
		passwordHash:  passwordHash,
		sessionTokens: sessionTokens,
		clock:         clock,
		config:        config,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

type LoginInput struct {
	Login    string
	Password string
}

type LoginResult struct {
	Token     string
	ExpiresIn int64
	Account   *entity.Account
}

// Register creates an unverified account and emails a one-time verification
// token. A delivery failure is reported to the caller but does not roll the
// account back: the stored token stays valid for a later resend.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	existing, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}

	hash, err := s.passwordHash.Hash(input.Password)
	if err != nil {
		return err
	}

	rawToken, err := utils.GenerateRandomToken(verificationTokenBytes)
	if err != nil {
		return err
	}
	tokenHash := utils.HashToken(rawToken)

	role := entity.AccountRole(input.Role)
	if role == "" {
		role = entity.AccountRoleUser
	}

	account := &entity.Account{
		Name:              strings.TrimSpace(input.Name),
		Email:             email,
		PasswordHash:      hash,
		Role:              role,
		IsVerified:        false,
		VerificationToken: &tokenHash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return err
	}

	if err := s.sendMail(ctx, func(ctx context.Context) error {
		return s.emailSender.SendVerificationEmail(ctx, account.Email, rawToken)
	}); err != nil {
		return ErrDeliveryFailed
	}
	return nil
}

// VerifyEmail redeems a verification token. The redeem is a single
// compare-and-set on the store, so the first submission wins and any repeat
// of the same token reports invalid.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidInput
	}
	redeemed, err := s.accounts.RedeemVerification(ctx, utils.HashToken(token))
	if err != nil {
		return err
	}
	if !redeemed {
		return ErrInvalidToken
	}
	return nil
}

// ResendVerification reissues the verification token for a still-unverified
// account.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}
	account, err := s.accounts.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	if account.IsVerified {
		return ErrAlreadyVerified
	}

	rawToken, err := utils.GenerateRandomToken(verificationTokenBytes)
	if err != nil {
		return err
	}
	if err := s.accounts.SetVerificationToken(ctx, account.ID, utils.HashToken(rawToken)); err != nil {
		return err
	}

	if err := s.sendMail(ctx, func(ctx context.Context) error {
		return s.emailSender.SendVerificationEmail(ctx, account.Email, rawToken)
	}); err != nil {
		return ErrDeliveryFailed
	}
	return nil
}

// Login authenticates by display name or email. Unverified accounts are
// rejected with a distinct error so clients can prompt for verification
// instead of retrying credentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Login) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	account, err := s.accounts.FindByLogin(ctx, utils.NormalizeName(input.Login))
	if err != nil {
		return nil, err
	}
	if account == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		return nil, ErrInvalidCredentials
	}

	if !s.passwordHash.Verify(account.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}

	if !account.IsVerified {
		return nil, ErrNotVerified
	}

	token, ttl, err := s.sessionTokens.IssueSessionToken(*account)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(ttl.Seconds()),
		Account:   account,
	}, nil
}

// RequestPasswordReset issues a time-boxed reset token and mails it. When
// delivery fails the token fields are cleared again so the account is left
// with no reset pending.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}

	account, err := s.accounts.FindByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}

	rawToken, err := utils.GenerateRandomToken(resetTokenBytes)
	if err != nil {
		return err
	}
	expiry := s.now().Add(s.resetTokenTTL())
	if err := s.accounts.SetResetToken(ctx, account.ID, utils.HashToken(rawToken), expiry); err != nil {
		return err
	}

	if err := s.sendMail(ctx, func(ctx context.Context) error {
		return s.emailSender.SendPasswordResetEmail(ctx, account.Email, rawToken)
	}); err != nil {
		if clearErr := s.accounts.ClearResetToken(ctx, account.ID); clearErr != nil {
			return clearErr
		}
		return ErrDeliveryFailed
	}
	return nil
}

// ResetPassword redeems a reset token. An expired token reports a distinct
// error so the client knows to request a fresh link.
func (s *AuthService) ResetPassword(ctx context.Context, token string, newPassword string) error {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(newPassword) == "" {
		return ErrInvalidInput
	}

	tokenHash := utils.HashToken(token)
	account, err := s.accounts.FindByResetToken(ctx, tokenHash)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrInvalidToken
	}
	if account.ResetExpiry == nil || s.now().After(*account.ResetExpiry) {
		return ErrTokenExpired
	}

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	completed, err := s.accounts.CompleteReset(ctx, account.ID, tokenHash, hash)
	if err != nil {
		return err
	}
	if !completed {
		return ErrInvalidToken
	}
	return nil
}

// ChangePassword is the in-session path: the current password must verify
// against the stored hash before the new one is accepted.
func (s *AuthService) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword string, newPassword string) error {
	if strings.TrimSpace(currentPassword) == "" || strings.TrimSpace(newPassword) == "" {
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

	hash, err := s.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.accounts.UpdatePassword(ctx, account.ID, hash)
}

func (s *AuthService) sendMail(ctx context.Context, send func(context.Context) error) error {
	if s.emailSender == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.mailTimeout())
	defer cancel()
	return send(ctx)
}

func (s *AuthService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *AuthService) resetTokenTTL() time.Duration {
	if s.config.ResetTokenTTL > 0 {
		return s.config.ResetTokenTTL
	}
	return 10 * time.Minute
}

func (s *AuthService) mailTimeout() time.Duration {
	if s.config.MailTimeout > 0 {
		return s.config.MailTimeout
	}
	return 10 * time.Second
}
