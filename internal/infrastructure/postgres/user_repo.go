package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/blog-api/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, password_hash, verified,
	verification_code_hash, verification_code_expires_at,
	forgot_password_code_hash, forgot_password_code_expires_at,
	created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, verified)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		user.Email, user.PasswordHash, user.Verified,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrDuplicateKey
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) UpdateFields(ctx context.Context, email string, update domain.UserUpdate) (*domain.User, error) {
	query, args, err := buildUserUpdate(email, update)
	if err != nil {
		return nil, err
	}
	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

func (r *UserRepository) ClearExpiredCodes(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET    verification_code_hash          = CASE WHEN verification_code_expires_at <= $1 THEN NULL ELSE verification_code_hash END,
		       verification_code_expires_at    = CASE WHEN verification_code_expires_at <= $1 THEN NULL ELSE verification_code_expires_at END,
		       forgot_password_code_hash       = CASE WHEN forgot_password_code_expires_at <= $1 THEN NULL ELSE forgot_password_code_hash END,
		       forgot_password_code_expires_at = CASE WHEN forgot_password_code_expires_at <= $1 THEN NULL ELSE forgot_password_code_expires_at END,
		       updated_at                      = NOW()
		WHERE  verification_code_expires_at <= $1
		   OR  forgot_password_code_expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("clear expired codes: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// buildUserUpdate renders a UserUpdate as a single UPDATE ... RETURNING so
// every field in it lands atomically.
func buildUserUpdate(email string, update domain.UserUpdate) (string, []any, error) {
	if update.Empty() {
		return "", nil, errors.New("build user update: nothing to update")
	}

	b := psql.Update("users").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"email": email})

	if update.PasswordHash != nil {
		b = b.Set("password_hash", *update.PasswordHash)
	}
	if update.Verified != nil {
		b = b.Set("verified", *update.Verified)
	}

	switch {
	case update.SetVerificationCode != nil:
		b = b.Set("verification_code_hash", update.SetVerificationCode.Hash).
			Set("verification_code_expires_at", update.SetVerificationCode.ExpiresAt)
	case update.ClearVerificationCode:
		b = b.Set("verification_code_hash", nil).
			Set("verification_code_expires_at", nil)
	}

	switch {
	case update.SetForgotPasswordCode != nil:
		b = b.Set("forgot_password_code_hash", update.SetForgotPasswordCode.Hash).
			Set("forgot_password_code_expires_at", update.SetForgotPasswordCode.ExpiresAt)
	case update.ClearForgotPasswordCode:
		b = b.Set("forgot_password_code_hash", nil).
			Set("forgot_password_code_expires_at", nil)
	}

	if g := update.Guard; g != nil {
		switch g.Kind {
		case domain.CodeVerification:
			b = b.Where(sq.Eq{"verification_code_hash": g.Hash}).
				Where(sq.Gt{"verification_code_expires_at": g.Now})
		case domain.CodeForgotPassword:
			b = b.Where(sq.Eq{"forgot_password_code_hash": g.Hash}).
				Where(sq.Gt{"forgot_password_code_expires_at": g.Now})
		default:
			return "", nil, fmt.Errorf("build user update: unknown code kind %q", g.Kind)
		}
	}

	query, args, err := b.Suffix("RETURNING " + userColumns).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build user update: %w", err)
	}
	return query, args, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Verified,
		&u.VerificationCodeHash, &u.VerificationCodeExpiresAt,
		&u.ForgotPasswordCodeHash, &u.ForgotPasswordCodeExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
