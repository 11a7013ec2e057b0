package repository

import (
	"context"

	"github.com/ErlanBelekov/blog-api/internal/domain"
)

type PostRepository interface {
	List(ctx context.Context) ([]*domain.Post, error)
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}
