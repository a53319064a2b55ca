package main // seeds the initial admin account

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/autospa/carwash-booking/internal/auth"
	"github.com/autospa/carwash-booking/internal/config"
	"github.com/autospa/carwash-booking/internal/database"
	"github.com/autospa/carwash-booking/internal/model"
	"github.com/autospa/carwash-booking/internal/repository"
)

// Registration always produces client accounts and there is no promotion
// endpoint, so the first admin has to come from outside the API. This
// one-shot command reads ADMIN_NAME / ADMIN_EMAIL / ADMIN_PASSWORD and
// inserts an admin user; it is idempotent against an existing email.
func main() {
	log.Println("seeding admin account...")
	_ = godotenv.Load()
	cfg := config.Load()

	name := os.Getenv("ADMIN_NAME")
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	if name == "" || email == "" || password == "" {
		log.Fatal("ADMIN_NAME, ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	hash, err := auth.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepository(db)
	u := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			log.Printf("admin %s already exists, nothing to do", email)
			return
		}
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin %s created with id %d", email, u.ID)
}
