package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"amphomeus/internal/config"
	"amphomeus/internal/database"
	jwtsvc "amphomeus/internal/pkg/jwt"
	"amphomeus/internal/pkg/logger"
	"amphomeus/internal/pkg/mediastore"
	"amphomeus/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(ctx, db); err != nil {
		zl.Fatal("migrations failed", zap.Error(err))
	}

	media, err := mediastore.New(ctx, cfg.Media, zl.Named("mediastore"))
	if err != nil {
		zl.Fatal("media store init failed", zap.Error(err))
	}

	tokens := jwtsvc.New(cfg.Auth.JWTSecret, cfg.Auth.DevTokenTTL, cfg.Auth.Issuer)

	router := server.NewRouter(server.Deps{
		DB:             db,
		Media:          media,
		Tokens:         tokens,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            zl,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("api listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("base_url", cfg.AppBaseURL),
			zap.String("auth_provider", cfg.Auth.ProviderURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
