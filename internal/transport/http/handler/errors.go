package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/blog-api/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer    = "Internal server error"
	errValidation        = "Validation failed"
	errEmailTaken        = "User already exists!"
	errAlreadyVerified   = "You are already verified!"
	errInvalidOrExpired  = "Code is invalid or has expired!"
	errUserNotFound      = "User does not exist!"
	errInvalidCredential = "Invalid credentials!"
	errCodeMismatch      = "Invalid code provided!"
	errNotVerified       = "You are not a verified user!"
	errPostNotFound      = "Post not found"
	errNotPostOwner      = "You are not the owner of this post"
	errInvalidPostID     = "Invalid post id"
	errEmptyPatch        = "Nothing to update"
	errConflict          = "Conflict"
	errNotFound          = "Not found"
	errUnauthorized      = "Unauthorized"
	errForbidden         = "Forbidden"
)

// errorResponses is checked in order; specific errors come before the kind
// they wrap.
var errorResponses = []struct {
	err    error
	status int
	msg    string
}{
	{domain.ErrEmailTaken, http.StatusConflict, errEmailTaken},
	{domain.ErrAlreadyVerified, http.StatusConflict, errAlreadyVerified},
	{domain.ErrInvalidOrExpiredCode, http.StatusConflict, errInvalidOrExpired},
	{domain.ErrConflict, http.StatusConflict, errConflict},

	{domain.ErrUserNotFound, http.StatusNotFound, errUserNotFound},
	{domain.ErrPostNotFound, http.StatusNotFound, errPostNotFound},
	{domain.ErrNotFound, http.StatusNotFound, errNotFound},

	{domain.ErrInvalidCredentials, http.StatusUnauthorized, errInvalidCredential},
	{domain.ErrCodeMismatch, http.StatusUnauthorized, errCodeMismatch},
	{domain.ErrUnauthorized, http.StatusUnauthorized, errUnauthorized},

	{domain.ErrNotVerified, http.StatusForbidden, errNotVerified},
	{domain.ErrNotPostOwner, http.StatusForbidden, errNotPostOwner},
	{domain.ErrForbidden, http.StatusForbidden, errForbidden},
}

// respondError maps a use-case error onto a status and message. Unknown
// errors are logged and reported as 500.
func respondError(c *gin.Context, logger *slog.Logger, op string, err error) {
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			c.JSON(r.status, gin.H{"success": false, "error": r.msg})
			return
		}
	}
	logger.ErrorContext(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": errInternalServer})
}
