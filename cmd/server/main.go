package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cibn-digital-library/internal/cart"
	"cibn-digital-library/internal/config"
	"cibn-digital-library/internal/database"
	"cibn-digital-library/internal/handlers"
	"cibn-digital-library/internal/middleware"
	"cibn-digital-library/internal/repositories"
	"cibn-digital-library/internal/services"
	"cibn-digital-library/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectWithRetry(ctx, cfg.CIBNDB)
	if err != nil {
		slog.Error("failed to connect to CIBN database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to CIBN membership database", "server", cfg.CIBNDB.Server)

	persistent, err := storage.NewFileStore(cfg.Storage.Dir, 0)
	if err != nil {
		slog.Error("failed to open storage directory", "dir", cfg.Storage.Dir, "error", err)
		os.Exit(1)
	}
	sessionStore := storage.NewMemoryStore(0)

	tokens, err := services.NewTokenService(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTL)*time.Hour)
	if err != nil {
		slog.Error("failed to create token service", "error", err)
		os.Exit(1)
	}

	members := repositories.NewMemberRepository(db.DB)
	auth := services.NewAuthService(members, tokens)

	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:          handlers.NewAuthHandler(auth),
		Cart:          handlers.NewCartHandler(cart.NewManager(persistent, cfg.Cart.VATRateBps)),
		Library:       handlers.NewLibraryHandler(sessionStore, persistent),
		Authenticator: middleware.NewAuthenticator(tokens),
		Development:   cfg.IsDevelopment(),
	})

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr, "env", cfg.Server.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
}

func setupLogger(cfg *config.Config) {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	if cfg.Log.Pretty {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
