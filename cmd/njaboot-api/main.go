package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "njaboot/internal/adapter/http"
	"njaboot/internal/adapter/memory"
	"njaboot/internal/adapter/postgres"
	"njaboot/internal/app"
	"njaboot/internal/config"
	"njaboot/internal/domain"
	"njaboot/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

const sessionSweepInterval = 15 * time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "njaboot-api"}).Error(context.Background(), "config load failed", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "njaboot-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server stopped", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	var (
		users    domain.UserRepository
		sessions domain.SessionRepository
		opts     []adapthttp.Option
	)
	if cfg.Server.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.Server.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		users, sessions = db, postgres.NewSessionRepo(db)
		opts = append(opts, adapthttp.WithPinger(db))
	} else {
		log.Warn(ctx, "NJABOOT_DATABASE_URL not set, accounts live in memory only", nil)
		db := memory.New()
		users, sessions = db, db.NewSessionRepo()
	}

	authSvc := app.NewAuthService(users, sessions, cfg.Server.SessionTTL)

	if cfg.Server.ManagerEmail != "" {
		created, err := authSvc.BootstrapManager(ctx, cfg.Server.ManagerEmail, cfg.Server.ManagerPassword)
		if err != nil {
			return err
		}
		if created {
			log.Info(log.WithField(ctx, "email", cfg.Server.ManagerEmail), "manager account created")
		}
	}

	if cfg.OIDC.Enabled() {
		provider, err := oidc.NewProvider(ctx, cfg.OIDC.Issuer)
		if err != nil {
			return err
		}
		opts = append(opts, adapthttp.WithOIDC(adapthttp.OIDCConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: oauth2.Config{
				ClientID:     cfg.OIDC.ClientID,
				ClientSecret: cfg.OIDC.ClientSecret,
				RedirectURL:  cfg.OIDC.RedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
		}))
		log.Info(log.WithField(ctx, "issuer", cfg.OIDC.Issuer), "single sign-on enabled")
	}
	opts = append(opts, adapthttp.WithSecureCookies(!cfg.App.IsDev()))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           adapthttp.New(authSvc, log, opts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go sweepSessions(ctx, authSvc, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info(log.WithField(ctx, "addr", cfg.Server.Addr), "listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	log.Info(shutdownCtx, "shutting down")
	return srv.Shutdown(shutdownCtx)
}

func sweepSessions(ctx context.Context, authSvc *app.AuthService, log *logger.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := authSvc.PurgeExpiredSessions(ctx); err != nil {
				log.Warn(ctx, "purging expired sessions failed", err)
			}
		}
	}
}
