package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"shopapi/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeAccountRepo is an in-memory AccountRepository with the same visible
// semantics as the gorm implementation: soft-deleted rows are invisible, the
// redeem operations are single compare-and-set steps.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*entity.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*entity.Account)}
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *entity.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.accounts {
		if existing.Email == account.Email && !existing.DeletedAt.Valid {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	clone := *account
	f.accounts[account.ID] = &clone
	return nil
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok || account.DeletedAt.Valid {
		return nil, nil
	}
	clone := *account
	return &clone, nil
}

func (f *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Email == email && !account.DeletedAt.Valid {
			clone := *account
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) FindByLogin(ctx context.Context, login string) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.DeletedAt.Valid {
			continue
		}
		if account.Email == login || strings.ToLower(account.Name) == login {
			clone := *account
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, account *entity.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *account
	f.accounts[account.ID] = &clone
	return nil
}

func (f *fakeAccountRepo) SetVerificationToken(ctx context.Context, id uuid.UUID, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[id]; ok {
		account.VerificationToken = &tokenHash
	}
	return nil
}

func (f *fakeAccountRepo) RedeemVerification(ctx context.Context, tokenHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.DeletedAt.Valid || account.VerificationToken == nil {
			continue
		}
		if *account.VerificationToken == tokenHash {
			account.IsVerified = true
			account.VerificationToken = nil
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccountRepo) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[id]; ok {
		account.ResetToken = &tokenHash
		account.ResetExpiry = &expiry
	}
	return nil
}

func (f *fakeAccountRepo) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[id]; ok {
		account.ResetToken = nil
		account.ResetExpiry = nil
	}
	return nil
}

func (f *fakeAccountRepo) FindByResetToken(ctx context.Context, tokenHash string) (*entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.DeletedAt.Valid || account.ResetToken == nil {
			continue
		}
		if *account.ResetToken == tokenHash {
			clone := *account
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) CompleteReset(ctx context.Context, id uuid.UUID, tokenHash string, passwordHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account, ok := f.accounts[id]
	if !ok || account.ResetToken == nil || *account.ResetToken != tokenHash {
		return false, nil
	}
	account.PasswordHash = passwordHash
	account.ResetToken = nil
	account.ResetExpiry = nil
	return true, nil
}

func (f *fakeAccountRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[id]; ok {
		account.PasswordHash = passwordHash
	}
	return nil
}

func (f *fakeAccountRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if account, ok := f.accounts[id]; ok {
		account.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return nil
}

func (f *fakeAccountRepo) Search(ctx context.Context, query string) ([]entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	needle := strings.ToLower(query)
	var out []entity.Account
	for _, account := range f.accounts {
		if account.DeletedAt.Valid {
			continue
		}
		if strings.Contains(strings.ToLower(account.Name), needle) ||
			strings.Contains(strings.ToLower(account.Email), needle) {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) List(ctx context.Context, limit, offset int) ([]entity.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Account
	for _, account := range f.accounts {
		if !account.DeletedAt.Valid {
			out = append(out, *account)
		}
	}
	return out, nil
}

// raw returns the stored record without copy or soft-delete filtering, for
// asserting on persisted state.
func (f *fakeAccountRepo) raw(id uuid.UUID) *entity.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accounts[id]
}

func (f *fakeAccountRepo) rawByEmail(email string) *entity.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.Email == email {
			return account
		}
	}
	return nil
}

type sentMail struct {
	To    string
	Token string
	Kind  string
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeEmailSender) SendVerificationEmail(ctx context.Context, email string, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: email, Token: token, Kind: "verify"})
	return nil
}

func (f *fakeEmailSender) SendPasswordResetEmail(ctx context.Context, email string, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: email, Token: token, Kind: "reset"})
	return nil
}

func (f *fakeEmailSender) last() sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMail{}
	}
	return f.sent[len(f.sent)-1]
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	clone := *product
	f.products[product.ID] = &clone
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	clone := *product
	return &clone, nil
}

func (f *fakeProductRepo) List(ctx context.Context, limit, offset int) ([]entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Product
	for _, product := range f.products {
		out = append(out, *product)
	}
	return out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *product
	f.products[product.ID] = &clone
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return false, nil
	}
	delete(f.products, id)
	return true, nil
}
