package httptransport_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/blog-api/internal/domain"
	httptransport "github.com/ErlanBelekov/blog-api/internal/transport/http"
	"github.com/ErlanBelekov/blog-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/blog-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct{}

func (stubAuth) Signup(context.Context, string, string) (*domain.User, error) {
	return &domain.User{ID: "u1", Email: "alice@example.com"}, nil
}
func (stubAuth) Signin(context.Context, string, string) (*usecase.Session, error) {
	return nil, domain.ErrNotVerified
}
func (stubAuth) SendVerificationCode(context.Context, string) error { return nil }
func (stubAuth) VerifyCode(context.Context, string, int) error { return nil }
func (stubAuth) ChangePassword(context.Context, string, string, string) error { return nil }
func (stubAuth) SendForgotPasswordCode(context.Context, string) error { return nil }
func (stubAuth) VerifyForgotPasswordCode(context.Context, string, int, string) error { return nil }

type stubPosts struct{}

func (stubPosts) List(context.Context) ([]*domain.Post, error) { return nil, nil }
func (stubPosts) Get(context.Context, string) (*domain.Post, error) { return nil, domain.ErrPostNotFound }
func (stubPosts) Create(context.Context, usecase.CreatePostInput) (*domain.Post, error) {
	return nil, nil
}
func (stubPosts) Update(context.Context, string, string, domain.PostPatch) (*domain.Post, error) {
	return nil, nil
}
func (stubPosts) Delete(context.Context, string, string) error { return nil }

type stubUsers struct{}

func (stubUsers) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (stubUsers) FindByID(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (stubUsers) Create(context.Context, *domain.User) (*domain.User, error) { return nil, nil }
func (stubUsers) UpdateFields(context.Context, string, domain.UserUpdate) (*domain.User, error) {
	return nil, nil
}
func (stubUsers) ClearExpiredCodes(context.Context, time.Time) (int, error) { return 0, nil }

func newRouter() *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httptransport.NewRouter(
		logger,
		handler.NewAuthHandler(stubAuth{}, logger, false),
		handler.NewPostHandler(stubPosts{}, logger),
		stubUsers{},
		[]byte("router-test-secret-at-least-32-chars"),
		[]string{"*"},
	)
}

func serve(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newRouter().ServeHTTP(w, req)
	return w
}

func TestRouter_Root(t *testing.T) {
	w := serve(http.MethodGet, "/", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Hello from the server") {
		t.Errorf("body = %s", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers not applied")
	}
}

func TestRouter_PublicRoutes(t *testing.T) {
	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/auth/signup", `{"email":"alice@example.com","password":"pw"}`, http.StatusCreated},
		{http.MethodPost, "/api/auth/signin", `{"email":"alice@example.com","password":"pw"}`, http.StatusForbidden},
		{http.MethodPost, "/api/auth/signout", ``, http.StatusOK},
		{http.MethodPost, "/api/auth/send-verification-code", `{"email":"alice@example.com"}`, http.StatusOK},
		{http.MethodPost, "/api/auth/verify-verification-code", `{"email":"alice@example.com","providedCode":123456}`, http.StatusOK},
		{http.MethodPost, "/api/auth/send-forgot-password-code", `{"email":"alice@example.com"}`, http.StatusOK},
		{http.MethodPost, "/api/auth/verify-forgot-password-code", `{"email":"alice@example.com","providedCode":123456,"newPassword":"x"}`, http.StatusOK},
		{http.MethodGet, "/api/posts/all-posts", ``, http.StatusOK},
		{http.MethodGet, "/api/posts/single-post?_id=0b7e4c52-1d2a-4f3b-8c9d-0e1f2a3b4c5d", ``, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			if w := serve(tt.method, tt.path, tt.body); w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRouter_SessionRoutesRequireToken(t *testing.T) {
	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/auth/change-password"},
		{http.MethodPost, "/api/posts/create-post"},
		{http.MethodPut, "/api/posts/update-post"},
		{http.MethodDelete, "/api/posts/delete-post"},
	}
	for _, rt := range routes {
		if w := serve(rt.method, rt.path, `{}`); w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", rt.method, rt.path, w.Code)
		}
	}
}
