package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ErlanBelekov/blog-api/internal/domain"
	"github.com/ErlanBelekov/blog-api/internal/transport/http/middleware"
	"github.com/ErlanBelekov/blog-api/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Signup(ctx context.Context, email, password string) (*domain.User, error)
	Signin(ctx context.Context, email, password string) (*usecase.Session, error)
	SendVerificationCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email string, providedCode int) error
	ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error
	SendForgotPasswordCode(ctx context.Context, email string) error
	VerifyForgotPasswordCode(ctx context.Context, email string, providedCode int, newPassword string) error
}

type AuthHandler struct {
	authUsecase  authUsecaser
	logger       *slog.Logger
	secureCookie bool
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		logger:       logger.With("component", "auth_handler"),
		secureCookie: secureCookie,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"    binding:"required,min=6,max=60,email,tld=com net"`
	Password string `json:"password" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,min=6,max=60,email,tld=com net"`
}

type verifyCodeRequest struct {
	Email        string      `json:"email"        binding:"required,min=6,max=60,email,tld=com net"`
	ProvidedCode json.Number `json:"providedCode" binding:"required,numeric"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type resetPasswordRequest struct {
	Email        string      `json:"email"        binding:"required,min=6,max=60,email,tld=com net"`
	ProvidedCode json.Number `json:"providedCode" binding:"required,numeric"`
	NewPassword  string      `json:"newPassword"  binding:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type signupResponse struct {
	messageResponse
	User userResponse `json:"user"`
}

type signinResponse struct {
	messageResponse
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func ok(msg string) messageResponse {
	return messageResponse{Success: true, Message: msg}
}

// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authUsecase.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "signup", err)
		return
	}

	c.JSON(http.StatusCreated, signupResponse{
		messageResponse: ok("Your account has been created successfully"),
		User: userResponse{
			ID:        user.ID,
			Email:     user.Email,
			Verified:  user.Verified,
			CreatedAt: user.CreatedAt,
		},
	})
}

// POST /api/auth/signin
// Returns the token in the body and as the Authorization cookie.
func (h *AuthHandler) Signin(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.authUsecase.Signin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "signin", err)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "Bearer "+session.Token, maxAge, "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, signinResponse{
		messageResponse: ok("Logged in successfully"),
		Token:           session.Token,
		ExpiresAt:       session.ExpiresAt,
	})
}

// POST /api/auth/signout
func (h *AuthHandler) Signout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, ok("Logged out successfully"))
}

// POST /api/auth/send-verification-code
// The plaintext code only ever leaves through email.
func (h *AuthHandler) SendVerificationCode(c *gin.Context) {
	var req emailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUsecase.SendVerificationCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, "send verification code", err)
		return
	}
	c.JSON(http.StatusOK, ok("Code sent!"))
}

// POST /api/auth/verify-verification-code
func (h *AuthHandler) VerifyVerificationCode(c *gin.Context) {
	var req verifyCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	code, valid := parseCode(c, req.ProvidedCode)
	if !valid {
		return
	}

	if err := h.authUsecase.VerifyCode(c.Request.Context(), req.Email, code); err != nil {
		respondError(c, h.logger, "verify verification code", err)
		return
	}
	c.JSON(http.StatusOK, ok("Your account has been verified!"))
}

// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.authUsecase.ChangePassword(c.Request.Context(), c.GetString(middleware.ContextEmail), req.OldPassword, req.NewPassword)
	if err != nil {
		respondError(c, h.logger, "change password", err)
		return
	}
	c.JSON(http.StatusOK, ok("Password updated!"))
}

// POST /api/auth/send-forgot-password-code
func (h *AuthHandler) SendForgotPasswordCode(c *gin.Context) {
	var req emailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUsecase.SendForgotPasswordCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, "send forgot password code", err)
		return
	}
	c.JSON(http.StatusOK, ok("Code sent!"))
}

// POST /api/auth/verify-forgot-password-code
func (h *AuthHandler) VerifyForgotPasswordCode(c *gin.Context) {
	var req resetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	code, valid := parseCode(c, req.ProvidedCode)
	if !valid {
		return
	}

	err := h.authUsecase.VerifyForgotPasswordCode(c.Request.Context(), req.Email, code, req.NewPassword)
	if err != nil {
		respondError(c, h.logger, "verify forgot password code", err)
		return
	}
	c.JSON(http.StatusOK, ok("Password updated!"))
}

// parseCode accepts integral codes only; "12.5" passes the numeric rule but
// is not a code.
func parseCode(c *gin.Context, n json.Number) (int, bool) {
	code, err := strconv.Atoi(n.String())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   errValidation,
			"details": []FieldError{{Field: "providedCode", Rule: "integer"}},
		})
		return 0, false
	}
	return code, true
}
