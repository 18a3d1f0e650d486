package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/smartclassroom/classroom-api/internal/api"
	"github.com/smartclassroom/classroom-api/internal/core/state"
	"github.com/smartclassroom/classroom-api/internal/infrastructure/config"
	"github.com/smartclassroom/classroom-api/internal/infrastructure/store/csvstore"
	"github.com/smartclassroom/classroom-api/internal/infrastructure/tutor"
	"github.com/smartclassroom/classroom-api/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	env := os.Getenv("ENV")
	log := logger.Init(logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: env == "" || env == "development",
	})

	cfg := config.Load(log)
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}
	if cfg.Tutor.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set; every ask will serve a fallback answer")
	}

	users, err := csvstore.NewUserStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open user store")
	}
	history, err := csvstore.NewHistoryStore(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open history store")
	}

	gemini := tutor.NewGeminiClient(cfg.Tutor.APIKey, cfg.Tutor.BaseURL, cfg.Tutor.Model, cfg.Tutor.Timeout)
	board := state.NewClassBoard()

	e := api.NewRouter(users, history, gemini, board, cfg.JWTSecret, cfg.TokenTTL, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("data_dir", cfg.DataDir).Msg("classroom api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
