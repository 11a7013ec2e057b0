package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Verified     bool

	VerificationCodeHash      *string
	VerificationCodeExpiresAt *time.Time

	ForgotPasswordCodeHash      *string
	ForgotPasswordCodeExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CodeKind distinguishes the two one-time code slots on a user.
type CodeKind string

const (
	CodeVerification   CodeKind = "verification"
	CodeForgotPassword CodeKind = "forgot_password"
)

// StoredCode is a code hash paired with its expiry. The pair is always
// written and cleared together.
type StoredCode struct {
	Hash      string
	ExpiresAt time.Time
}

// ActiveCode returns the stored code of the given kind if one is present and
// has not expired at now. A code with now >= expiry is treated as absent.
func (u *User) ActiveCode(kind CodeKind, now time.Time) (StoredCode, bool) {
	var hash *string
	var exp *time.Time
	switch kind {
	case CodeVerification:
		hash, exp = u.VerificationCodeHash, u.VerificationCodeExpiresAt
	case CodeForgotPassword:
		hash, exp = u.ForgotPasswordCodeHash, u.ForgotPasswordCodeExpiresAt
	}
	if hash == nil || exp == nil || *hash == "" {
		return StoredCode{}, false
	}
	if !now.Before(*exp) {
		return StoredCode{}, false
	}
	return StoredCode{Hash: *hash, ExpiresAt: *exp}, true
}

// UserUpdate is a partial update applied to one user row in a single atomic
// statement. Nil fields are left untouched.
type UserUpdate struct {
	PasswordHash *string
	Verified     *bool

	SetVerificationCode   *StoredCode
	ClearVerificationCode bool

	SetForgotPasswordCode   *StoredCode
	ClearForgotPasswordCode bool

	// Guard makes the update conditional on the row still holding this code
	// hash in the given slot, unexpired at Now. A failed guard reports
	// ErrUserNotFound.
	Guard *CodeGuard
}

type CodeGuard struct {
	Kind CodeKind
	Hash string
	Now  time.Time
}

// Empty reports whether the update would change nothing.
func (u UserUpdate) Empty() bool {
	return u.PasswordHash == nil && u.Verified == nil &&
		u.SetVerificationCode == nil && !u.ClearVerificationCode &&
		u.SetForgotPasswordCode == nil && !u.ClearForgotPasswordCode
}

// NormalizeEmail trims and lowercases an address so one mailbox maps to one user.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
