// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Threadline Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/threadline/threadline/internal/account"
	accountpg "github.com/threadline/threadline/internal/account/postgres"
	accountredis "github.com/threadline/threadline/internal/account/redis"
	"github.com/threadline/threadline/internal/config"
	"github.com/threadline/threadline/internal/forum"
	forumpg "github.com/threadline/threadline/internal/forum/postgres"
	apigraphql "github.com/threadline/threadline/internal/graphql"
	"github.com/threadline/threadline/internal/logging"
	"github.com/threadline/threadline/internal/notify"
	"github.com/threadline/threadline/internal/observability"
	"github.com/threadline/threadline/internal/store"
	"github.com/threadline/threadline/internal/web"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the GraphQL API server, connecting to PostgreSQL and Redis
and applying any pending database migrations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd)
		},
	}

	cmd.Flags().String("listen-addr", "", "API listen address")
	cmd.Flags().String("metrics-addr", "", "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection string")
	cmd.Flags().String("redis-url", "", "Redis connection string")
	cmd.Flags().String("frontend-url", "", "web client base URL for reset links")
	cmd.Flags().String("log-format", "", "log format (json or text)")
	cmd.Flags().Bool("auto-migrate", true, "apply pending migrations on startup")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("threadline", version, cfg.LogFormat)
	logger := slog.Default()

	logger.Info("starting server",
		"listen_addr", cfg.ListenAddr,
		"log_format", cfg.LogFormat,
	)

	autoMigrate, err := cmd.Flags().GetBool("auto-migrate")
	if err != nil {
		return oops.With("flag", "auto-migrate").Wrap(err)
	}
	if autoMigrate {
		if err := applyMigrations(cfg.DatabaseURL, logger); err != nil {
			return err
		}
	}

	pool, err := store.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	redisOpts, err := goredis.ParseURL(cfg.RedisURL)
	if err != nil {
		return oops.Code("CONFIG_INVALID").
			With("operation", "parse redis url").
			Wrap(err)
	}
	redisClient := goredis.NewClient(redisOpts)
	defer func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			logger.Debug("error closing redis client", "error", closeErr)
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return oops.Code("REDIS_CONNECT_FAILED").
			With("operation", "ping redis").
			Wrap(err)
	}
	logger.Info("redis connected")

	// Assemble domain services
	users := accountpg.NewUserRepository(pool)
	sessions := accountredis.NewSessionStore(redisClient, cfg.Cookie.MaxAge)
	tokens := accountredis.NewResetTokenStore(redisClient, account.ResetTokenTTL)
	hasher := account.NewArgon2idHasher()

	var notifier account.Notifier
	if cfg.Email.Enabled {
		notifier, err = notify.NewSESNotifier(ctx, cfg.Email.Region, cfg.Email.FromEmail,
			cfg.Email.FromName, cfg.FrontendURL, logger)
		if err != nil {
			return err
		}
	} else {
		notifier = notify.NewLogNotifier(cfg.FrontendURL, logger)
	}

	accounts, err := account.NewServiceWithLogger(users, sessions, hasher, logger)
	if err != nil {
		return err
	}
	resets, err := account.NewResetServiceWithLogger(users, tokens, sessions, hasher, notifier, logger)
	if err != nil {
		return err
	}
	posts, err := forum.NewService(forumpg.NewPostRepository(pool))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server if configured
	var obsServer *observability.Server
	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		metrics = obsServer.Metrics()
		obsErrCh, obsErr := obsServer.Start()
		if obsErr != nil {
			return obsErr
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	schema, err := apigraphql.NewSchema(apigraphql.Dependencies{
		Accounts: accounts,
		Resets:   resets,
		Posts:    posts,
		Metrics:  metrics,
	})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", apigraphql.NewHandler(schema, metrics, logger))

	var handler http.Handler = mux
	handler = web.SessionMiddleware(web.CookieConfig{
		Name:   cfg.Cookie.Name,
		Domain: cfg.Cookie.Domain,
		Secure: cfg.Cookie.Secure,
		MaxAge: cfg.Cookie.MaxAge,
	})(handler)
	handler = web.RequestLogger(logger)(handler)
	handler = web.CORS(cfg.CORSOrigins)(handler)

	apiServer := web.NewServer(cfg.ListenAddr, handler)
	apiErrCh, err := apiServer.Start()
	if err != nil {
		return err
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	cmd.Println("Server started")
	logger.Info("server ready", "addr", apiServer.Addr())

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	// Graceful shutdown
	logger.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}

// applyMigrations brings the database schema up to date before serving.
func applyMigrations(databaseURL string, logger *slog.Logger) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			logger.Warn("error closing migrator", "error", closeErr)
		}
	}()

	pending, err := migrator.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		logger.Info("database schema up to date")
		return nil
	}

	logger.Info("applying migrations", "pending", len(pending))
	if err := migrator.Up(); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

// monitorServerErrors monitors a server's error channel and cancels the
// context on error, so a server failure triggers graceful shutdown of the
// whole process. It exits when an error is received, the channel is
// closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
		// Context cancelled, exit monitoring
	}
}
