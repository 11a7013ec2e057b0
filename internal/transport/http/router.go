package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/blog-api/internal/repository"
	"github.com/ErlanBelekov/blog-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/blog-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, postHandler *handler.PostHandler, userRepo repository.UserRepository, jwtKey []byte, corsOrigins []string) *gin.Engine {
	handler.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(middleware.CORS(corsOrigins))
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	session := []gin.HandlerFunc{middleware.Auth(jwtKey), middleware.EnsureUser(userRepo, logger)}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Hello from the server"})
	})

	// Verification routes stay public: signin refuses unverified accounts,
	// so they cannot hold a session yet.
	auth := r.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/signin", authHandler.Signin)
	auth.POST("/signout", authHandler.Signout)
	auth.POST("/send-verification-code", authHandler.SendVerificationCode)
	auth.POST("/verify-verification-code", authHandler.VerifyVerificationCode)
	auth.POST("/change-password", append(session, authHandler.ChangePassword)...)
	auth.POST("/send-forgot-password-code", authHandler.SendForgotPasswordCode)
	auth.POST("/verify-forgot-password-code", authHandler.VerifyForgotPasswordCode)

	posts := r.Group("/api/posts")
	posts.GET("/all-posts", postHandler.List)
	posts.GET("/single-post", postHandler.Single)
	posts.POST("/create-post", append(session, postHandler.Create)...)
	posts.PUT("/update-post", append(session, postHandler.Update)...)
	posts.DELETE("/delete-post", append(session, postHandler.Delete)...)

	return r
}
