package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/examin-app/examin-backend/internal/config"
	"github.com/examin-app/examin-backend/internal/database"
	"github.com/examin-app/examin-backend/internal/logger"
	"github.com/examin-app/examin-backend/internal/model"
	"github.com/examin-app/examin-backend/internal/repository"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Seed Primary Admin ===")

	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	fmt.Print("Enter Admin ID: ")
	adminID, _ := reader.ReadString('\n')
	adminID = strings.TrimSpace(adminID)
	if adminID == "" {
		fmt.Println("Error: Admin ID is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println()
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	admin := &model.User{
		Name:           name,
		Email:          email,
		StudentID:      &adminID,
		PasswordHash:   string(hashedPassword),
		Role:           model.RoleAdmin,
		IsPrimaryAdmin: true,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("Failed to create primary admin")
	}

	fmt.Printf("\nSuccess! Primary admin '%s' (%s) created with ID: %d\n", admin.Name, admin.Email, admin.ID)
}
