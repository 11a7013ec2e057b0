// seed inserts a verified demo user and a handful of posts into the local dev
// database. Re-running it is safe: an existing demo user is left as is.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/blog-api/internal/domain"
	"github.com/ErlanBelekov/blog-api/internal/hashing"
	"github.com/ErlanBelekov/blog-api/internal/infrastructure/postgres"
)

const (
	seedEmail    = "demo@blog.com"
	seedPassword = "demo-password"
)

var posts = []struct{ title, description string }{
	{"Hello, world", "The first post on the demo blog."},
	{"Verification codes", "Six digits, five minutes, used once."},
	{"Forgot your password?", "Request a code, then send it back with a new password."},
	{"Ownership", "Only the author of a post can edit or delete it."},
	{"Cookies and headers", "The session token is accepted from either place."},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set (run: direnv allow)")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err = postgres.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := postgres.NewUserRepository(pool)
	postRepo := postgres.NewPostRepository(pool)

	hash, err := hashing.HashSecret(seedPassword, hashing.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user, err := users.Create(ctx, &domain.User{Email: seedEmail, PasswordHash: hash})
	if errors.Is(err, domain.ErrDuplicateKey) {
		fmt.Printf("Demo user %s already exists, nothing to do\n", seedEmail)
		return
	}
	if err != nil {
		log.Fatalf("create user: %v", err)
	}

	verified := true
	if _, err = users.UpdateFields(ctx, seedEmail, domain.UserUpdate{Verified: &verified}); err != nil {
		log.Fatalf("verify user: %v", err)
	}

	for _, p := range posts {
		if _, err = postRepo.Create(ctx, &domain.Post{Title: p.title, Description: p.description, UserID: user.ID}); err != nil {
			log.Fatalf("create post %q: %v", p.title, err)
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:     %s\n", seedEmail)
	fmt.Printf("  Password: %s\n", seedPassword)
	fmt.Printf("  User ID:  %s\n", user.ID)
	fmt.Printf("  Posts:    %d\n", len(posts))
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  curl -s -X POST http://localhost:8080/api/auth/signin \\")
	fmt.Println("    -H 'Content-Type: application/json' \\")
	fmt.Printf("    -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println("  # → {\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  curl -s http://localhost:8080/api/posts/all-posts")
}
