package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"taskshare/internal/db"
	"taskshare/internal/domain"
	"taskshare/internal/repository"
	"taskshare/internal/service"
)

// Dev helper: seeds a test user and prints a bearer token for it.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	username := os.Getenv("TEST_USERNAME")
	if username == "" {
		username = "testuser"
	}
	password := os.Getenv("TEST_PASSWORD")
	if password == "" {
		password = "testpass"
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	users := repository.NewUserRepository(pool)
	ctx := context.Background()

	u, err := users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		hash, err := service.HashPassword(password)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		u = &domain.User{Username: username, HashedPassword: hash}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create user: %v", err)
		}
		log.Printf("user created id=%d username=%s", u.ID, u.Username)
	} else if err != nil {
		log.Fatalf("get user: %v", err)
	} else {
		log.Printf("user already exists id=%d username=%s", u.ID, u.Username)
	}

	tokens := service.NewTokenService(secret, os.Getenv("JWT_ALGORITHM"), 24*time.Hour)
	token, err := tokens.Generate(u.Username)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}
	log.Printf("token=%s", token)
}
