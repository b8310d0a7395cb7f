package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/samiti-foundation/server/internal/api"
	"github.com/samiti-foundation/server/internal/auth"
	"github.com/samiti-foundation/server/internal/config"
	"github.com/samiti-foundation/server/internal/domain/admins"
	"github.com/samiti-foundation/server/internal/media"
	"github.com/samiti-foundation/server/internal/storage/postgres"
)

var (
	serverHost string
	serverPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server and begin accepting API requests.

The server will:
- Load configuration from environment variables (or --env-file)
- Bootstrap the default admin if the admins table is empty
- Serve the public and admin APIs
- Handle graceful shutdown on SIGINT/SIGTERM`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("version", Version).Msg("starting samiti server")

	poolCtx, poolCancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := pgxpool.New(poolCtx, cfg.Database.URL)
	poolCancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return err
	}

	bootstrapCtx, bootstrapCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := bootstrapAdmin(bootstrapCtx, cfg, repo, logger); err != nil {
		logger.Error().Err(err).Msg("admin bootstrap failed")
	}
	bootstrapCancel()

	uploader, err := buildUploader(cfg, logger)
	if err != nil {
		return err
	}

	api.Version = Version
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(cfg, logger, pool, repo, uploader),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	return gracefulShutdown(server, logger)
}

func bootstrapAdmin(ctx context.Context, cfg config.Config, repo *postgres.Repository, logger zerolog.Logger) error {
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)
	service := admins.NewService(repo.Admins(), tokens, logger)
	return service.Bootstrap(ctx, cfg.AdminBootstrap.Username, cfg.AdminBootstrap.Password)
}

// buildUploader assembles the remote-then-local media pipeline. A missing
// bucket just means everything lands in the local upload dir.
func buildUploader(cfg config.Config, logger zerolog.Logger) (*media.Uploader, error) {
	local := media.NewLocalStore(cfg.Uploads.Dir)

	var remote media.Store
	if cfg.Media.Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s3store, err := media.NewS3Store(ctx, media.S3Options{
			Bucket:        cfg.Media.Bucket,
			Region:        cfg.Media.Region,
			Endpoint:      cfg.Media.Endpoint,
			PublicBaseURL: cfg.Media.PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("init s3 store: %w", err)
		}
		remote = s3store
		logger.Info().Str("bucket", cfg.Media.Bucket).Msg("remote media store enabled")
	} else {
		logger.Info().Str("dir", cfg.Uploads.Dir).Msg("media stored locally")
	}

	return media.NewUploader(remote, local, logger), nil
}

func gracefulShutdown(server *http.Server, logger zerolog.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}
