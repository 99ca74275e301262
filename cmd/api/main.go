package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-auth-nosql/internal/config"
	"github.com/go-auth-nosql/internal/infrastructure/dynamo"
	"github.com/go-auth-nosql/internal/infrastructure/memory"
	s3infra "github.com/go-auth-nosql/internal/infrastructure/s3"
	"github.com/go-auth-nosql/internal/infrastructure/smtp"
	"github.com/go-auth-nosql/internal/pkg/ticket"
	transporthttp "github.com/go-auth-nosql/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	deps := &transporthttp.Deps{Tickets: ticket.NewGenerator()}

	switch cfg.AccountStore {
	case "memory":
		slog.Warn("using in-memory account store; accounts are not persisted")
		deps.AccountRepo = memory.NewAccountStore(cfg.ConfirmationResetTimeout)
	default:
		dynamoClient, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			slog.Error("dynamodb client", "err", err)
			os.Exit(1)
		}
		// Bootstrap DynamoDB tables (creates them if they don't exist).
		dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)
		deps.AccountRepo = dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts, cfg.ConfirmationResetTimeout)
		deps.DeliveryRepo = dynamo.NewDeliveryRepo(dynamoClient, cfg.DynamoTables.Deliveries)
	}

	// Email templates from S3 (optional; embedded templates otherwise).
	var override smtp.TemplateSource
	if cfg.EmailTemplateBucket != "" {
		s3Client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			slog.Warn("S3 template store not available, using embedded templates", "err", err)
		} else {
			override = s3infra.NewTemplateStore(s3Client, cfg.EmailTemplateBucket)
		}
	}
	deps.Mailer = smtp.NewMailer(cfg, override)

	if !cfg.EmailsEnable {
		slog.Warn("EMAILS_ENABLE is false; confirmation resends will be refused")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
