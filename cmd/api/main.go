package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	temporalclient "go.temporal.io/sdk/client"

	"github.com/edvin/easybudget/internal/api"
	"github.com/edvin/easybudget/internal/api/request"
	"github.com/edvin/easybudget/internal/cache"
	"github.com/edvin/easybudget/internal/config"
	"github.com/edvin/easybudget/internal/core"
	"github.com/edvin/easybudget/internal/db"
	"github.com/edvin/easybudget/internal/logging"
	"github.com/edvin/easybudget/internal/metrics"
	"github.com/edvin/easybudget/internal/model"
	"github.com/edvin/easybudget/internal/report"
)

func main() {
	if len(os.Args) >= 2 && os.Args[1] == "create-api-key" {
		createAPIKey(os.Args[2:])
		return
	}

	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	migrateDirFlag := flag.String("migrate-dir", "migrations", "Migration files directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate("api"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	if *migrateFlag {
		logger.Info().Str("dir", *migrateDirFlag).Msg("running database migrations")
		if err := db.RunMigrations(cfg.DatabaseURL, *migrateDirFlag); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	metrics.RegisterPgxPoolMetrics(prometheus.DefaultRegisterer, pool)

	schema := db.NewSchemaCheck(pool, db.SchemaVersion)
	defer schema.Close()

	deps := api.Deps{
		Logger:      logger,
		DB:          pool,
		Schema:      schema,
		CORSOrigins: cfg.CORSOrigins,
	}

	var store cache.Store = cache.NewMemoryStore()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure redis")
		}
		defer rc.Close()
		redisStore := cache.NewRedisStore(rc, cfg.ServiceName+":")
		store = redisStore
		deps.Cache = redisStore
	} else {
		logger.Warn().Msg("REDIS_URL not set, using in-process cache")
	}

	opts, err := cfg.TemporalClientOptions()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure temporal TLS")
	}
	tc, err := temporalclient.Dial(opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to temporal")
	}
	defer tc.Close()
	deps.Temporal = tc

	var storage report.Storage
	if cfg.S3Enabled() {
		storage = report.NewS3Storage(report.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("report uploads enabled")
	}

	deps.Services = core.NewServices(core.Deps{
		DB:           pool,
		Cache:        store,
		Events:       core.NewTemporalDispatcher(tc, cfg.TemporalTaskQueue),
		Storage:      storage,
		JWTSecret:    cfg.JWTSecret,
		JWTTTL:       cfg.JWTTTL,
		Trial:        core.TrialPolicy{PlanSlug: cfg.TrialPlan, Days: cfg.TrialDays},
		SupportEmail: cfg.SupportEmail,
	})

	srv := api.NewServer(deps)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	srv.Close()
}

func createAPIKey(args []string) {
	fs := flag.NewFlagSet("create-api-key", flag.ExitOnError)
	name := fs.String("name", "", "Name for the API key (required)")
	fs.Parse(args)

	if *name == "" {
		fmt.Fprintln(os.Stderr, "error: --name is required")
		fmt.Fprintln(os.Stderr, "usage: api create-api-key --name <name>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	res := core.NewAPIKeyService(pool).Create(ctx, request.CreateAPIKey{Name: *name, Scopes: []string{model.ScopeAdmin}})
	if !res.IsSuccess() {
		fmt.Fprintf(os.Stderr, "error: failed to create API key: %s: %v\n", res.Message, res.Err)
		os.Exit(1)
	}
	key := res.Data

	fmt.Printf("API key created successfully.\n\n")
	fmt.Printf("  Name:   %s\n", key.Name)
	fmt.Printf("  ID:     %s\n", key.ID)
	fmt.Printf("  Key:    %s\n\n", key.Key)
	fmt.Printf("Save this key, it will not be shown again.\n")
}
