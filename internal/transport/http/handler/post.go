package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/blog-api/internal/domain"
	"github.com/ErlanBelekov/blog-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/blog-api/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type postUsecaser interface {
	List(ctx context.Context) ([]*domain.Post, error)
	Get(ctx context.Context, id string) (*domain.Post, error)
	Create(ctx context.Context, input usecase.CreatePostInput) (*domain.Post, error)
	Update(ctx context.Context, id, userID string, patch domain.PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, id, userID string) error
}

type PostHandler struct {
	postUsecase postUsecaser
	logger      *slog.Logger
}

func NewPostHandler(postUsecase postUsecaser, logger *slog.Logger) *PostHandler {
	return &PostHandler{postUsecase: postUsecase, logger: logger.With("component", "post_handler")}
}

type createPostRequest struct {
	Title       string `json:"title"       binding:"required,min=3,max=60"`
	Description string `json:"description" binding:"required,min=3,max=600"`
	UserID      string `json:"userId"      binding:"omitempty,uuid"`
}

type updatePostRequest struct {
	Title       string `json:"title"       binding:"omitempty,min=3,max=60"`
	Description string `json:"description" binding:"omitempty,min=3,max=600"`
}

type postResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UserID      string    `json:"user_id"`
	AuthorEmail string    `json:"author_email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		UserID:      p.UserID,
		AuthorEmail: p.AuthorEmail,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// GET /api/posts/all-posts
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.postUsecase.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list posts", err)
		return
	}

	data := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		data = append(data, toPostResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "posts", "data": data})
}

// GET /api/posts/single-post?_id=
func (h *PostHandler) Single(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := h.postUsecase.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get post", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "single post", "data": toPostResponse(post)})
}

// POST /api/posts/create-post
// The owner is always the session user; a userId in the body must agree.
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := c.GetString(middleware.ContextUserID)
	if req.UserID != "" && req.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": errForbidden})
		return
	}

	post, err := h.postUsecase.Create(c.Request.Context(), usecase.CreatePostInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, "create post", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "created", "data": toPostResponse(post)})
}

// PUT /api/posts/update-post?_id=
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	var req updatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Title == "" && req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errEmptyPatch})
		return
	}

	post, err := h.postUsecase.Update(c.Request.Context(), id, c.GetString(middleware.ContextUserID), domain.PostPatch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, "update post", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "updated", "data": toPostResponse(post)})
}

// DELETE /api/posts/delete-post?_id=
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := h.postUsecase.Delete(c.Request.Context(), id, c.GetString(middleware.ContextUserID)); err != nil {
		respondError(c, h.logger, "delete post", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "deleted"})
}

func postID(c *gin.Context) (string, bool) {
	raw := c.Query("_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": errInvalidPostID})
		return "", false
	}
	return id.String(), true
}
