package service

import (
	"context"
	"testing"
	"time"

	"shopapi/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(repo *fakeAccountRepo, mail *fakeEmailSender, clock *fixedClock) (*AuthService, *utils.JWTManager) {
	manager := &utils.JWTManager{Secret: []byte("test-secret"), SessionTokenTTL: 30 * 24 * time.Hour}
	svc := NewAuthService(
		repo,
		mail,
		BcryptPasswordHasher{Cost: bcrypt.MinCost},
		JWTSessionIssuer{Manager: manager},
		clock,
		AuthConfig{ResetTokenTTL: 10 * time.Minute},
	)
	return svc, manager
}

func register(t *testing.T, svc *AuthService, name, email, password string) {
	t.Helper()
	err := svc.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password})
	require.NoError(t, err)
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{}
	svc, _ := newTestAuthService(repo, mail, &fixedClock{now: time.Now()})

	register(t, svc, "alice", "Alice@X.com", "pw1secret")

	stored := repo.rawByEmail("alice@x.com")
	require.NotNil(t, stored, "account not created")
	assert.NotEqual(t, "pw1secret", stored.PasswordHash)
	hasher := BcryptPasswordHasher{Cost: bcrypt.MinCost}
	assert.True(t, hasher.Verify(stored.PasswordHash, "pw1secret"))
	assert.False(t, stored.IsVerified)

	// The mail carries the raw token; the store only ever holds its digest.
	require.NotNil(t, stored.VerificationToken)
	sent := mail.last()
	assert.Equal(t, "alice@x.com", sent.To)
	assert.Equal(t, "verify", sent.Kind)
	assert.NotEqual(t, sent.Token, *stored.VerificationToken)
	assert.Equal(t, utils.HashToken(sent.Token), *stored.VerificationToken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeAccountRepo()
	svc, _ := newTestAuthService(repo, &fakeEmailSender{}, &fixedClock{now: time.Now()})

	register(t, svc, "alice", "alice@x.com", "pw1secret")
	err := svc.Register(context.Background(), RegisterInput{Name: "other", Email: "ALICE@x.com", Password: "pw2secret"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_DeliveryFailureKeepsAccount(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{err: assert.AnError}
	svc, _ := newTestAuthService(repo, mail, &fixedClock{now: time.Now()})

	err := svc.Register(context.Background(), RegisterInput{Name: "alice", Email: "alice@x.com", Password: "pw1secret"})
	assert.ErrorIs(t, err, ErrDeliveryFailed)

	// Registration is not rolled back and the token stays valid for a resend.
	stored := repo.rawByEmail("alice@x.com")
	require.NotNil(t, stored)
	assert.NotNil(t, stored.VerificationToken)
}

func TestVerifyEmail_GatesLogin(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{}
	svc, manager := newTestAuthService(repo, mail, &fixedClock{now: time.Now()})
	ctx := context.Background()

	register(t, svc, "alice", "alice@x.com", "pw1secret")

	// Correct password, unverified account: rejected with the distinct reason.
	_, err := svc.Login(ctx, LoginInput{Login: "alice", Password: "pw1secret"})
	assert.ErrorIs(t, err, ErrNotVerified)

	require.NoError(t, svc.VerifyEmail(ctx, mail.last().Token))

	result, err := svc.Login(ctx, LoginInput{Login: "alice", Password: "pw1secret"})
	require.NoError(t, err)
	require.NotNil(t, result.Account)

	claims, err := manager.ParseSessionToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Account.ID.String(), claims.AccountID)
}

func TestVerifyEmail_SecondRedemptionFails(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{}
	svc, _ := newTestAuthService(repo, mail, &fixedClock{now: time.Now()})
	ctx := context.Background()

	register(t, svc, "alice", "alice@x.com", "pw1secret")
	token := mail.last().Token

	require.NoError(t, svc.VerifyEmail(ctx, token))
	assert.ErrorIs(t, svc.VerifyEmail(ctx, token), ErrInvalidToken)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	repo := newFakeAccountRepo()
	svc, _ := newTestAuthService(repo, &fakeEmailSender{}, &fixedClock{now: time.Now()})

	assert.ErrorIs(t, svc.VerifyEmail(context.Background(), "nope"), ErrInvalidToken)
}

func TestResendVerification(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{}
	svc, _ := newTestAuthService(repo, mail, &fixedClock{now: time.Now()})
	ctx := context.Background()

	register(t, svc, "alice", "alice@x.com", "pw1secret")
	first := mail.last().Token

	require.NoError(t, svc.ResendVerification(ctx, "alice@x.com"))
	second := mail.last().Token
	assert.NotEqual(t, first, second)

	// The reissued token redeems; the original no longer matches.
	assert.ErrorIs(t, svc.VerifyEmail(ctx, first), ErrInvalidToken)
	require.NoError(t, svc.VerifyEmail(ctx, second))

	assert.ErrorIs(t, svc.ResendVerification(ctx, "alice@x.com"), ErrAlreadyVerified)
	assert.ErrorIs(t, svc.ResendVerification(ctx, "ghost@x.com"), ErrAccountNotFound)
}

func TestLogin_BadCredentials(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{}
	svc, _ := newTestAuthService(repo, mail, &fixedClock{now: time.Now()})
	ctx := context.Background()

	register(t, svc, "alice", "alice@x.com", "pw1secret")
	require.NoError(t, svc.VerifyEmail(ctx, mail.last().Token))

	_, err := svc.Login(ctx, LoginInput{Login: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Login: "ghost", Password: "pw1secret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_ByEmailOrNameCaseInsensitive(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{}
	svc, _ := newTestAuthService(repo, mail, &fixedClock{now: time.Now()})
	ctx := context.Background()

	register(t, svc, "Alice", "alice@x.com", "pw1secret")
	require.NoError(t, svc.VerifyEmail(ctx, mail.last().Token))

	for _, login := range []string{"alice@x.com", "ALICE@X.COM", "Alice", "alice", " aLiCe "} {
		_, err := svc.Login(ctx, LoginInput{Login: login, Password: "pw1secret"})
		assert.NoError(t, err, "login %q", login)
	}
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{}
	svc, _ := newTestAuthService(repo, mail, &fixedClock{now: time.Now()})

	err := svc.RequestPasswordReset(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.Empty(t, mail.sent)
}

func TestRequestPasswordReset_StoresTimeBoxedToken(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{}
	clock := &fixedClock{now: time.Now()}
	svc, _ := newTestAuthService(repo, mail, clock)
	ctx := context.Background()

	register(t, svc, "alice", "alice@x.com", "pw1secret")
	require.NoError(t, svc.RequestPasswordReset(ctx, "alice@x.com"))

	stored := repo.rawByEmail("alice@x.com")
	require.NotNil(t, stored.ResetToken)
	require.NotNil(t, stored.ResetExpiry)
	assert.Equal(t, clock.now.Add(10*time.Minute), *stored.ResetExpiry)
	assert.Equal(t, utils.HashToken(mail.last().Token), *stored.ResetToken)
}

func TestRequestPasswordReset_DeliveryFailureClearsToken(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{}
	svc, _ := newTestAuthService(repo, mail, &fixedClock{now: time.Now()})
	ctx := context.Background()

	register(t, svc, "alice", "alice@x.com", "pw1secret")

	mail.err = assert.AnError
	err := svc.RequestPasswordReset(ctx, "alice@x.com")
	assert.ErrorIs(t, err, ErrDeliveryFailed)

	stored := repo.rawByEmail("alice@x.com")
	assert.Nil(t, stored.ResetToken)
	assert.Nil(t, stored.ResetExpiry)
}

func TestResetPassword_Flow(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{}
	clock := &fixedClock{now: time.Now()}
	svc, _ := newTestAuthService(repo, mail, clock)
	ctx := context.Background()

	register(t, svc, "alice", "alice@x.com", "pw1secret")
	require.NoError(t, svc.VerifyEmail(ctx, mail.last().Token))
	require.NoError(t, svc.RequestPasswordReset(ctx, "alice@x.com"))
	token := mail.last().Token

	require.NoError(t, svc.ResetPassword(ctx, token, "newsecret1"))

	_, err := svc.Login(ctx, LoginInput{Login: "alice", Password: "newsecret1"})
	assert.NoError(t, err)
	_, err = svc.Login(ctx, LoginInput{Login: "alice", Password: "pw1secret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	stored := repo.rawByEmail("alice@x.com")
	assert.Nil(t, stored.ResetToken)
	assert.Nil(t, stored.ResetExpiry)

	// The token is single use.
	assert.ErrorIs(t, svc.ResetPassword(ctx, token, "another1"), ErrInvalidToken)
}

func TestResetPassword_Expired(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{}
	clock := &fixedClock{now: time.Now()}
	svc, _ := newTestAuthService(repo, mail, clock)
	ctx := context.Background()

	register(t, svc, "alice", "alice@x.com", "pw1secret")
	require.NoError(t, svc.RequestPasswordReset(ctx, "alice@x.com"))
	token := mail.last().Token
	before := repo.rawByEmail("alice@x.com").PasswordHash

	clock.Advance(10*time.Minute + time.Second)

	err := svc.ResetPassword(ctx, token, "newsecret1")
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.Equal(t, before, repo.rawByEmail("alice@x.com").PasswordHash)
}

func TestResetPassword_UnknownToken(t *testing.T) {
	repo := newFakeAccountRepo()
	svc, _ := newTestAuthService(repo, &fakeEmailSender{}, &fixedClock{now: time.Now()})

	err := svc.ResetPassword(context.Background(), "nope", "newsecret1")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeAccountRepo()
	mail := &fakeEmailSender{}
	svc, _ := newTestAuthService(repo, mail, &fixedClock{now: time.Now()})
	ctx := context.Background()

	register(t, svc, "alice", "alice@x.com", "pw1secret")
	account := repo.rawByEmail("alice@x.com")
	before := account.PasswordHash

	err := svc.ChangePassword(ctx, account.ID, "wrong", "newsecret1")
	assert.ErrorIs(t, err, ErrWrongPassword)
	assert.Equal(t, before, repo.raw(account.ID).PasswordHash, "hash must be untouched after a rejected change")

	require.NoError(t, svc.ChangePassword(ctx, account.ID, "pw1secret", "newsecret1"))
	after := repo.raw(account.ID).PasswordHash
	assert.NotEqual(t, before, after)
	hasher := BcryptPasswordHasher{Cost: bcrypt.MinCost}
	assert.True(t, hasher.Verify(after, "newsecret1"))
}

func TestBcryptPasswordHasher_RoundTrip(t *testing.T) {
	hasher := BcryptPasswordHasher{Cost: bcrypt.MinCost}

	for _, plaintext := range []string{"pw1", "correct horse battery staple", "päss wörd"} {
		hash, err := hasher.Hash(plaintext)
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, hash)
		assert.True(t, hasher.Verify(hash, plaintext))
		assert.False(t, hasher.Verify(hash, plaintext+"x"))
	}

	// Same plaintext, fresh salt, different hash.
	first, err := hasher.Hash("pw1")
	require.NoError(t, err)
	second, err := hasher.Hash("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
