// Package server owns the process lifecycle: config, database, token store,
// the HTTP listener and the optional gRPC health server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/nutritrack/app/repositories"
	"github.com/shashiranjanraj/nutritrack/config"
	_ "github.com/shashiranjanraj/nutritrack/database/migrations"
	"github.com/shashiranjanraj/nutritrack/internal/kernel"
	"github.com/shashiranjanraj/nutritrack/pkg/auth"
	"github.com/shashiranjanraj/nutritrack/pkg/database"
	"github.com/shashiranjanraj/nutritrack/pkg/grpc"
	"github.com/shashiranjanraj/nutritrack/pkg/logger"
	"github.com/shashiranjanraj/nutritrack/pkg/migration"
)

const shutdownTimeout = 15 * time.Second

// Start boots every dependency and serves until SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.LogMongoURI(); uri != "" {
		if err := logger.EnableMongo(uri, config.LogMongoDB(), config.LogMongoCollection()); err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		}
		defer logger.Close()
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db)

	if _, err := migration.New(db, nil).Run(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := TokenStore(ctx, db)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens := auth.NewTokens(config.JWTSecret(), config.TokenTTL(), store)
	httpKernel := kernel.NewHTTPKernel(db, tokens)

	if port := config.GRPCPort(); port != "" {
		grpcSrv, err := grpc.Start(port, func(ctx context.Context) error { return database.Ping(ctx, db) })
		if err != nil {
			return err
		}
		defer grpcSrv.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           httpKernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("nutritrack listening", "addr", srv.Addr, "env", config.AppEnv(), "api_prefix", config.APIPrefix())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// TokenStore picks the revocation store named by TOKEN_DRIVER. The returned
// func releases whatever the store holds open.
func TokenStore(ctx context.Context, db *gorm.DB) (auth.TokenStore, func(), error) {
	switch driver := config.TokenDriver(); driver {
	case "redis":
		rdb, err := auth.DialRedis(ctx, config.RedisAddr(), config.RedisPassword())
		if err != nil {
			return nil, nil, err
		}
		return auth.NewRedisStore(rdb), func() { rdb.Close() }, nil
	case "database":
		return repositories.NewTokenRepository(db), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported TOKEN_DRIVER %q (supported: database, redis)", driver)
	}
}
