package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/blog-api/internal/domain"
	"github.com/ErlanBelekov/blog-api/internal/email"
	"github.com/ErlanBelekov/blog-api/internal/metrics"
	"github.com/ErlanBelekov/blog-api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
)

const defaultSessionTTL = 8 * time.Hour

type passwordHasher interface {
	HashPassword(plaintext string) (string, error)
	VerifyPassword(plaintext, hash string) bool
	HashCode(code int) string
	VerifyCode(code int, codeHash string) bool
}

type codeGenerator interface {
	GenerateNumericCode() (int, error)
	ExpiryFromNow() time.Time
	Now() time.Time
}

// AuthUsecase owns the account lifecycle: registration, sign-in, email
// verification and password changes. It keeps no state between calls.
type AuthUsecase struct {
	users      repository.UserRepository
	hasher     passwordHasher
	codes      codeGenerator
	email      email.Sender
	jwtKey     []byte
	sessionTTL time.Duration
}

func NewAuthUsecase(users repository.UserRepository, hasher passwordHasher, codes codeGenerator, emailSender email.Sender, jwtKey []byte, sessionTTL time.Duration) *AuthUsecase {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &AuthUsecase{
		users:      users,
		hasher:     hasher,
		codes:      codes,
		email:      emailSender,
		jwtKey:     jwtKey,
		sessionTTL: sessionTTL,
	}
}

// Session is what a successful sign-in hands back to the transport.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Signup registers a new, unverified user.
func (u *AuthUsecase) Signup(ctx context.Context, emailAddr, password string) (*domain.User, error) {
	emailAddr = domain.NormalizeEmail(emailAddr)

	_, err := u.users.FindByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := u.hasher.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := u.users.Create(ctx, &domain.User{
		Email:        emailAddr,
		PasswordHash: hash,
	})
	if err != nil {
		// concurrent signup for the same address
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.SignupsTotal.Inc()
	return created, nil
}

// Signin checks the password and returns a signed session token. Unverified
// accounts are refused.
func (u *AuthUsecase) Signin(ctx context.Context, emailAddr, password string) (*Session, error) {
	user, err := u.users.FindByEmail(ctx, domain.NormalizeEmail(emailAddr))
	if err != nil {
		metrics.SigninsTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !u.hasher.VerifyPassword(password, user.PasswordHash) {
		metrics.SigninsTotal.WithLabelValues("bad_password").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Verified {
		metrics.SigninsTotal.WithLabelValues("unverified").Inc()
		return nil, domain.ErrNotVerified
	}

	now := u.codes.Now()
	expiresAt := now.Add(u.sessionTTL)
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"email":    user.Email,
		"verified": user.Verified,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return nil, fmt.Errorf("sign jwt: %w", err)
	}

	metrics.SigninsTotal.WithLabelValues("success").Inc()
	return &Session{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

// SendVerificationCode issues a fresh email-verification code. Any previous
// code for the account is overwritten.
func (u *AuthUsecase) SendVerificationCode(ctx context.Context, emailAddr string) error {
	emailAddr = domain.NormalizeEmail(emailAddr)

	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user.Verified {
		return domain.ErrAlreadyVerified
	}

	return u.issueCode(ctx, emailAddr, domain.CodeVerification)
}

// VerifyCode consumes an active verification code and marks the account
// verified. A code verifies at most once.
func (u *AuthUsecase) VerifyCode(ctx context.Context, emailAddr string, providedCode int) error {
	emailAddr = domain.NormalizeEmail(emailAddr)

	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user.Verified {
		return domain.ErrAlreadyVerified
	}

	verified := true
	return u.consumeCode(ctx, user, domain.CodeVerification, providedCode, domain.UserUpdate{
		Verified:              &verified,
		ClearVerificationCode: true,
	})
}

// ChangePassword replaces the password of an already authenticated user after
// re-checking the old one.
func (u *AuthUsecase) ChangePassword(ctx context.Context, emailAddr, oldPassword, newPassword string) error {
	emailAddr = domain.NormalizeEmail(emailAddr)

	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	if !u.hasher.VerifyPassword(oldPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := u.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err = u.users.UpdateFields(ctx, emailAddr, domain.UserUpdate{PasswordHash: &hash}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SendForgotPasswordCode issues a password-reset code. The account does not
// need to be verified.
func (u *AuthUsecase) SendForgotPasswordCode(ctx context.Context, emailAddr string) error {
	emailAddr = domain.NormalizeEmail(emailAddr)

	if _, err := u.users.FindByEmail(ctx, emailAddr); err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	return u.issueCode(ctx, emailAddr, domain.CodeForgotPassword)
}

// VerifyForgotPasswordCode consumes an active reset code and sets newPassword.
func (u *AuthUsecase) VerifyForgotPasswordCode(ctx context.Context, emailAddr string, providedCode int, newPassword string) error {
	emailAddr = domain.NormalizeEmail(emailAddr)

	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	// Reject a dead code before hashing the new password.
	if _, ok := user.ActiveCode(domain.CodeForgotPassword, u.codes.Now()); !ok {
		metrics.CodeVerificationsTotal.WithLabelValues(string(domain.CodeForgotPassword), "invalid_or_expired").Inc()
		return domain.ErrInvalidOrExpiredCode
	}

	hash, err := u.hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return u.consumeCode(ctx, user, domain.CodeForgotPassword, providedCode, domain.UserUpdate{
		PasswordHash:            &hash,
		ClearForgotPasswordCode: true,
	})
}

func (u *AuthUsecase) issueCode(ctx context.Context, emailAddr string, kind domain.CodeKind) error {
	code, err := u.codes.GenerateNumericCode()
	if err != nil {
		return err
	}

	stored := &domain.StoredCode{
		Hash:      u.hasher.HashCode(code),
		ExpiresAt: u.codes.ExpiryFromNow(),
	}
	update := domain.UserUpdate{}
	subject := "Verification code"
	if kind == domain.CodeForgotPassword {
		update.SetForgotPasswordCode = stored
		subject = "Forgot password code"
	} else {
		update.SetVerificationCode = stored
	}

	// Stored only once the mail provider has accepted the message.
	msg := email.CodeMessage{To: emailAddr, Subject: subject, Code: code, ExpiresAt: stored.ExpiresAt}
	if err = u.email.SendCode(ctx, msg); err != nil {
		return fmt.Errorf("send %s code: %w", kind, err)
	}

	if _, err = u.users.UpdateFields(ctx, emailAddr, update); err != nil {
		return fmt.Errorf("store %s code: %w", kind, err)
	}

	metrics.CodesSentTotal.WithLabelValues(string(kind)).Inc()
	return nil
}

// consumeCode checks providedCode against the active code of kind and, on a
// match, applies update guarded on the code still being the one checked.
func (u *AuthUsecase) consumeCode(ctx context.Context, user *domain.User, kind domain.CodeKind, providedCode int, update domain.UserUpdate) error {
	now := u.codes.Now()
	active, ok := user.ActiveCode(kind, now)
	if !ok {
		metrics.CodeVerificationsTotal.WithLabelValues(string(kind), "invalid_or_expired").Inc()
		return domain.ErrInvalidOrExpiredCode
	}

	if !u.hasher.VerifyCode(providedCode, active.Hash) {
		metrics.CodeVerificationsTotal.WithLabelValues(string(kind), "mismatch").Inc()
		return domain.ErrCodeMismatch
	}

	update.Guard = &domain.CodeGuard{Kind: kind, Hash: active.Hash, Now: now}
	if _, err := u.users.UpdateFields(ctx, user.Email, update); err != nil {
		// The guard failed: someone consumed or replaced the code first.
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.CodeVerificationsTotal.WithLabelValues(string(kind), "invalid_or_expired").Inc()
			return domain.ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("consume %s code: %w", kind, err)
	}

	metrics.CodeVerificationsTotal.WithLabelValues(string(kind), "success").Inc()
	return nil
}
