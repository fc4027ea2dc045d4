package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sjyoon/taskhub-api/internal/cognito"
	"github.com/sjyoon/taskhub-api/internal/config"
	"github.com/sjyoon/taskhub-api/internal/engine"
	apihttp "github.com/sjyoon/taskhub-api/internal/http"
	"github.com/sjyoon/taskhub-api/internal/middleware"
	"github.com/sjyoon/taskhub-api/internal/repository"
	"github.com/sjyoon/taskhub-api/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDB(cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	userRepo := repository.NewPostgresUser(db)
	engines := engine.NewManager(engine.Repos{
		Todos:      repository.NewPostgresTodo(db),
		Subtasks:   repository.NewPostgresSubtask(db),
		Tags:       repository.NewPostgresTag(db),
		Categories: repository.NewPostgresCategory(db),
	})

	cognitoClient, err := cognito.NewAWSClient(ctx, cfg.Cognito.Region, cfg.Cognito.AppClientID, cfg.Cognito.AppClientSecret)
	if err != nil {
		return fmt.Errorf("cognito client init failed: %w", err)
	}
	authSvc := service.NewAuthService(cognitoClient, userRepo)

	authCfg := middleware.AuthConfig{DevMode: cfg.AuthDevMode}
	if !cfg.AuthDevMode {
		authCfg.JWKSClient = middleware.NewJWKSClient(
			middleware.CognitoJWKSURL(cfg.Cognito.Region, cfg.Cognito.UserPoolID))
		authCfg.Issuer = middleware.CognitoIssuer(cfg.Cognito.Region, cfg.Cognito.UserPoolID)
		authCfg.AppClientID = cfg.Cognito.AppClientID
		authCfg.UserResolver = &userResolver{users: userRepo}
	}
	auth, err := middleware.NewAuth(authCfg)
	if err != nil {
		return fmt.Errorf("auth middleware init failed: %w", err)
	}

	port, _ := strconv.Atoi(cfg.ServerPort)
	router := apihttp.NewRouter(engines, authSvc)
	server := apihttp.NewServer(port, logger, auth, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// userResolver adapts the user repository to the auth middleware, which
// only needs sub-to-id resolution.
type userResolver struct {
	users repository.UserRepository
}

func (r *userResolver) ResolveUserID(ctx context.Context, cognitoSub string) (string, error) {
	user, err := r.users.GetByCognitoSub(ctx, cognitoSub)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", middleware.ErrUserNotFound
		}
		return "", err
	}
	return user.ID, nil
}
