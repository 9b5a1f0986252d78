package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/chatterbox/auth-service/internal/api"
	"github.com/chatterbox/auth-service/internal/api/handler"
	"github.com/chatterbox/auth-service/internal/core/ports"
	"github.com/chatterbox/auth-service/internal/core/service"
	"github.com/chatterbox/auth-service/internal/infrastructure/config"
	"github.com/chatterbox/auth-service/internal/infrastructure/db/postgres"
	"github.com/chatterbox/auth-service/internal/infrastructure/db/redis"
	"github.com/chatterbox/auth-service/internal/infrastructure/mail"
	"github.com/chatterbox/auth-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("configuration invalid")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres unavailable")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, cfg.Postgres.URL); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	// Redis is optional; without it login throttling is disabled.
	var rdb *goredis.Client
	var limiter ports.LoginLimiter
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis unavailable")
		}
		defer rdb.Close()
		limiter = redis.NewLoginLimiter(rdb, cfg.Throttle.MaxFailures, cfg.Throttle.Cooldown, log)
	} else {
		log.Warn().Msg("REDIS_ADDR not set, login throttling disabled")
	}

	sender := mail.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Address, cfg.SMTP.Password)
	dispatcher := mail.NewDispatcher(0, sender, cfg.ClientURL, log)
	// Background context so in-flight emails drain on Stop rather than being
	// cut off by the shutdown signal.
	dispatcher.Start(context.Background())

	issuer := service.NewTokenIssuer(cfg.AccessTokenSecret, cfg.AccessTokenTTL())
	authService := service.NewAuthService(service.Deps{
		Users:         postgres.NewUserRepository(pool),
		RefreshTokens: postgres.NewRefreshTokenRepository(pool),
		Activations:   postgres.NewActivationTokenRepository(pool),
		Resets:        postgres.NewPasswordResetTokenRepository(pool),
		Issuer:        issuer,
		Notifier:      dispatcher,
		Limiter:       limiter,
		RefreshTTL:    cfg.RefreshTokenTTL(),
		Log:           log,
	})

	authHandler := handler.NewAuthHandler(authService)
	e := api.NewRouter(authHandler, issuer, pool, rdb, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting auth service")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	dispatcher.Stop()
}
