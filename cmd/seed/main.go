package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"gymbro-be/internal/config"
	"gymbro-be/internal/entity"
	"gymbro-be/internal/repository/specification"
	"gymbro-be/internal/repository/unitofwork"
	"gymbro-be/pkg/database"

	"github.com/golang-jwt/jwt/v5"
)

// seed creates a demo profile and prints a bearer token for it.
func main() {
	username := flag.String("username", "demo", "profile username")
	goal := flag.String("goal", "Build muscle while keeping my 5k time under 25 minutes", "profile goal")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	cfg := config.Load()
	if cfg.Keys.JWTSecret == "" {
		log.Fatal("Error: JWT_SECRET is not set")
	}

	opts := cfg.DatabaseOptions()
	if opts == nil {
		log.Fatal("Error: STORAGE_DRIVER=memory seeds DEMO_USERS at startup; only a token is needed")
	}
	db, err := database.Open(*opts)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	existing, err := uow.UserProfileRepository().FindOne(ctx, specification.ByUsername{Username: *username})
	if err != nil {
		log.Fatalf("Error: lookup %s: %v", *username, err)
	}
	if existing == nil {
		profile := &entity.UserProfile{
			Username: *username,
			Name:     "Demo User",
			Gender:   "female",
			Age:      "29",
			Weight:   "62 kg",
			Height:   "168 cm",
			Goal:     *goal,
		}
		if err := uow.UserProfileRepository().Create(ctx, profile); err != nil {
			log.Fatalf("Error: create %s: %v", *username, err)
		}
		log.Printf("Created profile %s (%s)", profile.Username, profile.Id)
	} else {
		log.Printf("Profile %s already exists, issuing a token only", existing.Username)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   *username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(*ttl)),
	}).SignedString([]byte(cfg.Keys.JWTSecret))
	if err != nil {
		log.Fatalf("Error: sign token: %v", err)
	}

	fmt.Println(token)
}
