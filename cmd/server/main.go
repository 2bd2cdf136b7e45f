package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/examin-app/examin-backend/internal/config"
	"github.com/examin-app/examin-backend/internal/database"
	"github.com/examin-app/examin-backend/internal/handler"
	"github.com/examin-app/examin-backend/internal/logger"
	"github.com/examin-app/examin-backend/internal/mailer"
	"github.com/examin-app/examin-backend/internal/repository"
	"github.com/examin-app/examin-backend/internal/router"
	"github.com/examin-app/examin-backend/internal/service"
	"github.com/examin-app/examin-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Examin Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	mail := mailer.New(cfg, log)
	if !mail.Enabled() {
		log.Warn().Msg("SMTP not configured, credential emails disabled")
	}

	authService := service.NewAuthService(cfg, rdb)
	userService := service.NewUserService(userRepo, authService, mail, log)
	examService := service.NewExamService(examRepo, submissionRepo, rdb, log)
	submissionService := service.NewSubmissionService(examRepo, submissionRepo, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(userService),
		Exam:       handler.NewExamHandler(examService, userService),
		Submission: handler.NewSubmissionHandler(submissionService),
		Monitor:    handler.NewMonitorHandler(rdb, examService, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
