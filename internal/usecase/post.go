package usecase

import (
	"context"
	"fmt"

	"dario.cat/mergo"
	"github.com/ErlanBelekov/blog-api/internal/domain"
	"github.com/ErlanBelekov/blog-api/internal/repository"
)

type PostUsecase struct {
	repo repository.PostRepository
}

func NewPostUsecase(repo repository.PostRepository) *PostUsecase {
	return &PostUsecase{repo: repo}
}

type CreatePostInput struct {
	UserID      string
	Title       string
	Description string
}

func (u *PostUsecase) List(ctx context.Context) ([]*domain.Post, error) {
	posts, err := u.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (u *PostUsecase) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (u *PostUsecase) Create(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	created, err := u.repo.Create(ctx, &domain.Post{
		Title:       input.Title,
		Description: input.Description,
		UserID:      input.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// Update applies patch to the post if userID owns it.
func (u *PostUsecase) Update(ctx context.Context, id, userID string, patch domain.PostPatch) (*domain.Post, error) {
	post, err := u.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	// Only non-empty patch fields override the stored values.
	if err = mergo.Merge(post, domain.Post{Title: patch.Title, Description: patch.Description}, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merge post patch: %w", err)
	}

	updated, err := u.repo.Update(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

func (u *PostUsecase) Delete(ctx context.Context, id, userID string) error {
	if _, err := u.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (u *PostUsecase) owned(ctx context.Context, id, userID string) (*domain.Post, error) {
	post, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post.UserID != userID {
		return nil, domain.ErrNotPostOwner
	}
	return post, nil
}
