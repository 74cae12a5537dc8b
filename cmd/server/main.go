package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/resend/resend-go/v2"

	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/handler"
	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/mailer"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
	"github.com/portfolio/backend/migrations"
)

const (
	shutdownTimeout = 10 * time.Second
	migrateTimeout  = 30 * time.Second
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Setup("")
		logging.Fatal("invalid configuration", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	pool := connectDatabase(cfg.Database)
	if pool != nil {
		defer pool.Close()
	}

	// store stays a nil interface when no database is configured so that
	// diagnostics can tell "not configured" apart from "not connected".
	var store repository.DocumentStore
	var writer service.DocumentWriter
	if cfg.Database.URL != "" {
		pgStore := repository.NewPgDocumentStore(pool)
		store, writer = pgStore, pgStore
	}

	notifier := service.NewNotifier(newSender(cfg.Email), cfg.Email.Timeout)
	recorder := service.NewLeadRecorder(writer, cfg.Database.Timeout)
	contactService := service.NewContactService(notifier, recorder)
	diagnosticsService := service.NewDiagnosticsService(store, cfg.Database)

	contactLimiter := handler.NewRateLimiter(cfg.ContactRateLimit, cfg.TrustedProxyCount)
	defer contactLimiter.Stop()

	router := handler.NewRouter(handler.Routes{
		Base:           handler.New(store),
		Contact:        handler.NewContactHandler(contactService, cfg.ContactPolicy),
		Diagnostics:    handler.NewDiagnosticsHandler(diagnosticsService),
		ContactLimiter: contactLimiter,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// A contact request may wait for both the mail relay and the store.
		WriteTimeout: cfg.Email.Timeout + cfg.Database.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server listening",
			"addr", server.Addr,
			"contact_policy", string(cfg.ContactPolicy),
			"database_configured", cfg.Database.URL != "",
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("server stopped")
}

// connectDatabase opens the lead store pool. Connection failures are logged
// and yield nil: the server still runs and reports the store as not initialized.
func connectDatabase(cfg config.DatabaseConfig) *pgxpool.Pool {
	if cfg.URL == "" {
		slog.Warn("DATABASE_URL not set; contact leads will not be saved")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	pool, err := repository.NewPool(ctx, cfg.URL, cfg.Name)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		return nil
	}

	if cfg.AutoMigrate {
		migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), migrateTimeout)
		defer cancelMigrate()
		if err := repository.Migrate(migrateCtx, pool, migrations.FS, "up", slog.Default()); err != nil {
			slog.Error("auto-migration failed", "error", err)
		}
	}
	return pool
}

// newSender picks Resend when an API key is configured and SMTP otherwise.
func newSender(cfg config.EmailConfig) mailer.Sender {
	if cfg.ResendAPIKey != "" {
		slog.Info("using Resend for contact notifications")
		return mailer.NewResendSender(resend.NewClient(cfg.ResendAPIKey), cfg.From, cfg.To)
	}
	return mailer.NewSMTPSender(mailer.SMTPConfig{
		Host: cfg.Host,
		Port: cfg.Port,
		User: cfg.User,
		Pass: cfg.Pass,
		From: cfg.From,
		To:   cfg.To,
	})
}
