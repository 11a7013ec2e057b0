package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ErlanBelekov/blog-api/internal/domain"
	"github.com/ErlanBelekov/blog-api/internal/usecase"
)

type fakePostRepo struct {
	list    func(ctx context.Context) ([]*domain.Post, error)
	getByID func(ctx context.Context, id string) (*domain.Post, error)
	create  func(ctx context.Context, post *domain.Post) (*domain.Post, error)
	update  func(ctx context.Context, post *domain.Post) (*domain.Post, error)
	delete  func(ctx context.Context, id string) error
}

func (r *fakePostRepo) List(ctx context.Context) ([]*domain.Post, error) { return r.list(ctx) }
func (r *fakePostRepo) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	return r.getByID(ctx, id)
}
func (r *fakePostRepo) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	return r.create(ctx, post)
}
func (r *fakePostRepo) Update(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	return r.update(ctx, post)
}
func (r *fakePostRepo) Delete(ctx context.Context, id string) error { return r.delete(ctx, id) }

func ownedPost() *domain.Post {
	return &domain.Post{ID: "post-1", Title: "Old title", Description: "Old description", UserID: "owner"}
}

func TestPostCreate_SetsOwner(t *testing.T) {
	var captured *domain.Post
	repo := &fakePostRepo{
		create: func(_ context.Context, p *domain.Post) (*domain.Post, error) {
			captured = p
			return p, nil
		},
	}

	_, err := usecase.NewPostUsecase(repo).Create(context.Background(), usecase.CreatePostInput{
		UserID: "owner", Title: "Hello", Description: "World",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.UserID != "owner" || captured.Title != "Hello" || captured.Description != "World" {
		t.Errorf("captured = %+v", captured)
	}
}

func TestPostGet_NotFound_Propagates(t *testing.T) {
	repo := &fakePostRepo{
		getByID: func(_ context.Context, _ string) (*domain.Post, error) { return nil, domain.ErrPostNotFound },
	}

	_, err := usecase.NewPostUsecase(repo).Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestPostUpdate_PartialPatchKeepsOtherFields(t *testing.T) {
	var saved *domain.Post
	repo := &fakePostRepo{
		getByID: func(_ context.Context, _ string) (*domain.Post, error) { return ownedPost(), nil },
		update: func(_ context.Context, p *domain.Post) (*domain.Post, error) {
			saved = p
			return p, nil
		},
	}

	_, err := usecase.NewPostUsecase(repo).Update(context.Background(), "post-1", "owner",
		domain.PostPatch{Title: "New title"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Title != "New title" {
		t.Errorf("title = %q, want New title", saved.Title)
	}
	if saved.Description != "Old description" {
		t.Errorf("description = %q, want it unchanged", saved.Description)
	}
	if saved.UserID != "owner" {
		t.Errorf("owner changed to %q", saved.UserID)
	}
}

func TestPostUpdate_NotOwner_ReturnsForbidden(t *testing.T) {
	repo := &fakePostRepo{
		getByID: func(_ context.Context, _ string) (*domain.Post, error) { return ownedPost(), nil },
		update: func(_ context.Context, _ *domain.Post) (*domain.Post, error) {
			t.Fatal("update must not be called")
			return nil, nil
		},
	}

	_, err := usecase.NewPostUsecase(repo).Update(context.Background(), "post-1", "intruder",
		domain.PostPatch{Title: "Hijacked"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("want ErrForbidden, got %v", err)
	}
}

func TestPostDelete_Owner(t *testing.T) {
	deleted := ""
	repo := &fakePostRepo{
		getByID: func(_ context.Context, _ string) (*domain.Post, error) { return ownedPost(), nil },
		delete: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}

	if err := usecase.NewPostUsecase(repo).Delete(context.Background(), "post-1", "owner"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "post-1" {
		t.Errorf("deleted = %q", deleted)
	}
}

func TestPostDelete_NotOwner_ReturnsForbidden(t *testing.T) {
	repo := &fakePostRepo{
		getByID: func(_ context.Context, _ string) (*domain.Post, error) { return ownedPost(), nil },
	}

	err := usecase.NewPostUsecase(repo).Delete(context.Background(), "post-1", "intruder")
	if !errors.Is(err, domain.ErrNotPostOwner) {
		t.Errorf("want ErrNotPostOwner, got %v", err)
	}
}

func TestPostList_RepoError_Propagates(t *testing.T) {
	dbErr := errors.New("db down")
	repo := &fakePostRepo{
		list: func(_ context.Context) ([]*domain.Post, error) { return nil, dbErr },
	}

	_, err := usecase.NewPostUsecase(repo).List(context.Background())
	if !errors.Is(err, dbErr) {
		t.Errorf("want wrapped dbErr, got %v", err)
	}
}
