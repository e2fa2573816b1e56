// seed creates a handful of demo users in the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/soundproxy/internal/domain"
	"github.com/ErlanBelekov/soundproxy/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/soundproxy/internal/usecase"
)

type userSpec struct {
	username string
	genres   []string
}

var users = []userSpec{
	{"demo-rock", []string{"rock", "alt-rock", "grunge"}},
	{"demo-hiphop", []string{"hip-hop", "r-b"}},
	{"demo-electronic", []string{"edm", "house", "techno"}},
	{"demo-jazz", []string{"jazz", "soul"}},
	{"demo-empty", nil},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		log.Fatalf("migrate: %v", err)
	}

	uc := usecase.NewUserUsecase(postgres.NewUserRepository(pool))

	// Re-runs skip usernames that already exist.
	var created []*domain.User
	var skipped int
	for _, spec := range users {
		user, err := uc.Create(ctx, usecase.CreateUserInput{Username: spec.username, Genres: spec.genres})
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			skipped++
		case err != nil:
			pool.Close()
			log.Fatalf("create %s: %v", spec.username, err)
		default:
			created = append(created, user)
		}
	}

	pool.Close()

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Users created: %d  (skipped %d already existing)\n", len(created), skipped)
	for _, u := range created {
		fmt.Printf("    %-16s %s\n", u.Username, u.ID)
	}
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Add a liked song to a user (use any ID from above):")
	fmt.Println()
	fmt.Println("    curl -s -X PATCH http://localhost:8080/api/users/USER_ID \\")
	fmt.Println("      -H 'Content-Type: application/json' \\")
	fmt.Println("      -d '{\"likedSongs\":[{\"id\":\"4uLU6hMCjMI75M1A2tKUQC\"}]}'")
	fmt.Println()
	fmt.Println("  Recommendations for that user's genres:")
	fmt.Println()
	fmt.Println("    curl -s 'http://localhost:8080/api/spotify/recommendations?seed_genres=rock,grunge'")
}
