package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/blog-api/internal/domain"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

// selectPosts joins the author so reads can show the owner's email.
var selectPosts = psql.
	Select("p.id", "p.title", "p.description", "p.user_id", "u.email", "p.created_at", "p.updated_at").
	From("posts p").
	Join("users u ON u.id = p.user_id")

func (r *PostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	query, args, err := selectPosts.OrderBy("p.created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list posts: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	query, args, err := selectPosts.Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get post: %w", err)
	}
	return scanPost(r.pool.QueryRow(ctx, query, args...))
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	var created domain.Post
	err := r.pool.QueryRow(ctx, `
		INSERT INTO posts (title, description, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, title, description, user_id, created_at, updated_at`,
		post.Title, post.Description, post.UserID,
	).Scan(&created.ID, &created.Title, &created.Description, &created.UserID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, mapPostErr(err)
	}
	return &created, nil
}

func (r *PostRepository) Update(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	query, args, err := buildPostUpdate(post)
	if err != nil {
		return nil, err
	}

	updated := domain.Post{AuthorEmail: post.AuthorEmail}
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&updated.ID, &updated.Title, &updated.Description, &updated.UserID, &updated.CreatedAt, &updated.UpdatedAt)
	if err != nil {
		return nil, mapPostErr(err)
	}
	return &updated, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return mapPostErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// buildPostUpdate writes the merged title and description of post and bumps
// updated_at.
func buildPostUpdate(post *domain.Post) (string, []any, error) {
	query, args, err := psql.Update("posts").
		Set("title", post.Title).
		Set("description", post.Description).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": post.ID}).
		Suffix("RETURNING id, title, description, user_id, created_at, updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build update post: %w", err)
	}
	return query, args, nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.UserID, &p.AuthorEmail, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapPostErr(err)
	}
	return &p, nil
}

func mapPostErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrPostNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.InvalidTextRepresentation:
			// malformed uuid
			return domain.ErrPostNotFound
		case pgerrcode.ForeignKeyViolation:
			return domain.ErrUserNotFound
		}
	}
	return fmt.Errorf("post query: %w", err)
}
