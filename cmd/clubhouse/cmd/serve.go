package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"clubhouse-backend/internal/api"
	"clubhouse-backend/internal/api/handlers"
	"clubhouse-backend/internal/auth"
	"clubhouse-backend/internal/config"
	"clubhouse-backend/internal/database"
	"clubhouse-backend/internal/jobs"
	"clubhouse-backend/internal/storage"
	"clubhouse-backend/internal/uploads"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server.

The server migrates the schema, starts the expired-session janitor when
session auth is enabled, and shuts down gracefully on SIGINT/SIGTERM.

Examples:
  # Start with configuration from the environment
  clubhouse serve

  # Start on another port with debug logging
  clubhouse serve --port 9090 --log-level debug`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
}

func runServer() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.Server.Env == "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	log.Info("Starting clubhouse backend",
		zap.String("env", cfg.Server.Env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("auth_mode", cfg.Auth.Mode),
	)

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	if err := database.Migrate(db); err != nil {
		return err
	}

	store := storage.New(db)
	files, err := uploads.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		return fmt.Errorf("upload storage: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var provider auth.Provider
	var sessions *auth.SessionProvider
	switch cfg.Auth.Mode {
	case config.AuthModeClaims:
		provider = auth.NewClaimsProvider(store.Users, auth.ClaimsConfig{
			Secret:   cfg.Auth.ClaimsSecret,
			Issuer:   cfg.Auth.ClaimsIssuer,
			Audience: cfg.Auth.ClaimsAudience,
		})
	default:
		sessions = auth.NewSessionProvider(store.Sessions, auth.CookieConfig{
			Name:   cfg.Auth.SessionCookie,
			TTL:    cfg.Auth.SessionTTL,
			Secure: cfg.Auth.CookieSecure,
		})
		provider = sessions

		janitor := jobs.NewSessionJanitor(store.Sessions, log, cfg.Auth.JanitorInterval)
		go janitor.Start(ctx)
		defer janitor.Stop()
	}

	h := handlers.New(handlers.Deps{
		Store:          store,
		Files:          files,
		Sessions:       sessions,
		MaxUploadBytes: cfg.Uploads.MaxBytes,
		Logger:         log,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(cfg, log, h, provider),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening",
			zap.Int("port", cfg.Server.Port),
			zap.String("uploads_dir", files.Dir()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	log.Info("Server exited")
	return nil
}
