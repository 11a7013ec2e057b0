package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/blog-api/internal/domain"
)

// UserRepository is the credential store the account use-case depends on.
// Emails passed in are already normalized.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// Create returns domain.ErrDuplicateKey when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// UpdateFields applies update as one atomic statement and returns the
	// updated row, or domain.ErrUserNotFound when nothing matched.
	UpdateFields(ctx context.Context, email string, update domain.UserUpdate) (*domain.User, error)

	// ClearExpiredCodes nulls every code/expiry pair with expiry <= now and
	// returns the number of rows touched.
	ClearExpiredCodes(ctx context.Context, now time.Time) (int, error)
}
