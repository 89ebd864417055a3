package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voice-todo/internal/config"
	"voice-todo/internal/handler"
	"voice-todo/internal/logger"
	"voice-todo/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	gin.SetMode(gin.ReleaseMode)

	if cfg.Groq.APIKey == "" {
		slog.Warn("GROQ_API_KEY not set, /api/action will fail upstream")
	}
	if cfg.ElevenLabs.APIKey == "" {
		slog.Warn("ELEVENLABS_API_KEY not set, /api/transcribe will fail")
	}

	deps := handler.Deps{
		AI:          service.NewAIService(cfg.Groq.BaseURL, cfg.Groq.APIKey, cfg.Groq.Model),
		Speech:      service.NewSpeechService(cfg.ElevenLabs.BaseURL, cfg.ElevenLabs.APIKey, cfg.ElevenLabs.Model),
		JWTSecret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL:    cfg.Auth.TokenTTL,
		UploadLimit: cfg.UploadLimit(),
		CORSOrigins: cfg.Server.CORSOrigins,
	}

	if cfg.DatabaseEnabled() {
		if cfg.Auth.JWTSecret == "" {
			slog.Error("JWT_SECRET is required when a database is configured")
			os.Exit(1)
		}
		db, err := cfg.OpenGormDB()
		if err != nil {
			slog.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		deps.Auth = service.NewAuthService(db)
		deps.History = service.NewActionLogService(db)
		slog.Info("auth and action log enabled", "db", cfg.Database.Name)
	} else {
		slog.Info("no database configured, API is open")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", cfg.Addr())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
