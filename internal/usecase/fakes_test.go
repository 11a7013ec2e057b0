package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ErlanBelekov/blog-api/internal/domain"
	"github.com/ErlanBelekov/blog-api/internal/email"
)

// memUserRepo mimics the Postgres store: one row per email, atomic guarded updates.
type memUserRepo struct {
	mu     sync.Mutex
	byMail map[string]*domain.User
	nextID int

	// optional fault injection
	findErr   error
	createErr error
	updateErr error
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byMail: make(map[string]*domain.User)}
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byMail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byMail {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, ok := r.byMail[user.Email]; ok {
		return nil, domain.ErrDuplicateKey
	}
	r.nextID++
	u := cloneUser(user)
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byMail[u.Email] = u
	return cloneUser(u), nil
}

func (r *memUserRepo) UpdateFields(_ context.Context, email string, up domain.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	u, ok := r.byMail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if g := up.Guard; g != nil {
		cur, exp := u.VerificationCodeHash, u.VerificationCodeExpiresAt
		if g.Kind == domain.CodeForgotPassword {
			cur, exp = u.ForgotPasswordCodeHash, u.ForgotPasswordCodeExpiresAt
		}
		if cur == nil || *cur != g.Hash || exp == nil || !exp.After(g.Now) {
			return nil, domain.ErrUserNotFound
		}
	}

	if up.PasswordHash != nil {
		u.PasswordHash = *up.PasswordHash
	}
	if up.Verified != nil {
		u.Verified = *up.Verified
	}
	switch {
	case up.SetVerificationCode != nil:
		h, e := up.SetVerificationCode.Hash, up.SetVerificationCode.ExpiresAt
		u.VerificationCodeHash, u.VerificationCodeExpiresAt = &h, &e
	case up.ClearVerificationCode:
		u.VerificationCodeHash, u.VerificationCodeExpiresAt = nil, nil
	}
	switch {
	case up.SetForgotPasswordCode != nil:
		h, e := up.SetForgotPasswordCode.Hash, up.SetForgotPasswordCode.ExpiresAt
		u.ForgotPasswordCodeHash, u.ForgotPasswordCodeExpiresAt = &h, &e
	case up.ClearForgotPasswordCode:
		u.ForgotPasswordCodeHash, u.ForgotPasswordCodeExpiresAt = nil, nil
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) ClearExpiredCodes(_ context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, u := range r.byMail {
		touched := false
		if u.VerificationCodeExpiresAt != nil && !u.VerificationCodeExpiresAt.After(now) {
			u.VerificationCodeHash, u.VerificationCodeExpiresAt = nil, nil
			touched = true
		}
		if u.ForgotPasswordCodeExpiresAt != nil && !u.ForgotPasswordCodeExpiresAt.After(now) {
			u.ForgotPasswordCodeHash, u.ForgotPasswordCodeExpiresAt = nil, nil
			touched = true
		}
		if touched {
			n++
		}
	}
	return n, nil
}

func (r *memUserRepo) get(email string) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneUser(r.byMail[email])
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// fakeCodes hands out a fixed sequence of codes and reads a movable clock.
type fakeCodes struct {
	now   time.Time
	ttl   time.Duration
	codes []int
	err   error
}

func (f *fakeCodes) GenerateNumericCode() (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	c := f.codes[0]
	if len(f.codes) > 1 {
		f.codes = f.codes[1:]
	}
	return c, nil
}

func (f *fakeCodes) ExpiryFromNow() time.Time { return f.now.Add(f.ttl) }
func (f *fakeCodes) Now() time.Time           { return f.now }

type sentEmail struct {
	to, subject, body string
}

type fakeEmailSender struct {
	sent []sentEmail
	err  error
}

func (s *fakeEmailSender) SendCode(_ context.Context, msg email.CodeMessage) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentEmail{to: msg.To, subject: msg.Subject, body: msg.HTML()})
	return nil
}
