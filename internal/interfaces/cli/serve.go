package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/refsign-check/internal/application/consistency"
	"github.com/turtacn/refsign-check/internal/config"
	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/infrastructure/database/postgres"
	"github.com/turtacn/refsign-check/internal/infrastructure/database/redis"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/refsign-check/internal/intelligence/linguistics"
	httpapi "github.com/turtacn/refsign-check/internal/interfaces/http"
	"github.com/turtacn/refsign-check/internal/interfaces/http/handlers"
	"github.com/turtacn/refsign-check/internal/interfaces/http/middleware"
)

// overridePurgeInterval paces the removal of expired Postgres overrides.
const overridePurgeInterval = time.Hour

type serveOptions struct {
	host string
	port int
}

// NewServeCmd creates the serve command running the HTTP analysis API.
func NewServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis API",
		Long: "Serve analysis sessions over HTTP. With redis.enabled the session\n" +
			"overrides, the check cache and the session locks live in Redis so\n" +
			"several replicas can serve the same sessions. With postgres.enabled\n" +
			"the overrides are kept durably in PostgreSQL instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := *cliCtx.Config
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}

	app, err := newApp(cmd.Context(), &cfg, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.logger.Info("starting refcheck API server",
		logging.String("version", Version),
		logging.String("addr", cfg.Server.Addr()),
		logging.Bool("redis", app.redis != nil),
		logging.Bool("postgres", app.pg != nil),
		logging.Bool("metrics", cfg.Metrics.Enabled))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(app.server.Start)
	if app.pgStore != nil {
		g.Go(func() error { return app.pgStore.RunPurger(gctx, overridePurgeInterval) })
	}
	g.Go(func() error {
		<-gctx.Done()
		return app.server.Stop(context.Background())
	})
	return g.Wait()
}

// app holds the long-lived components of the API server.
type app struct {
	server  *httpapi.Server
	redis   *redis.Client
	pg      *postgres.Connection
	pgStore *postgres.OverrideStore
	logger  logging.Logger
}

// newApp wires configuration into the service, the router and the server.
func newApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*app, error) {
	logger = logger.Named("serve")
	a := &app{logger: logger}

	lang, err := linguistics.ParseLanguage(cfg.Analysis.Language)
	if err != nil {
		return nil, err
	}

	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.AnalysisMetrics
	)
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, err
		}
		metrics = prometheus.NewAnalysisMetrics(collector)
	}

	engineOpts := []consistency.EngineOption{
		consistency.WithLogger(logger),
		consistency.WithMultiWordGap(cfg.Analysis.MultiWordGap),
		consistency.WithMaxTextSize(cfg.Analysis.MaxTextSize),
		consistency.WithManualMultiWord(cfg.Analysis.ManualMultiWord...),
	}
	if metrics != nil {
		engineOpts = append(engineOpts, consistency.WithRecorder(metrics))
	}
	svcOpts := []consistency.ServiceOption{
		consistency.WithDefaultLanguage(lang),
		consistency.WithEngineOptions(engineOpts...),
	}

	var (
		repo     reference.OverrideRepository
		checkers []handlers.HealthChecker
	)
	if cfg.Postgres.Enabled {
		conn, err := postgres.NewConnection(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		a.pg = conn
		if !cfg.Postgres.SkipMigrations {
			if err := conn.RunMigrations(ctx); err != nil {
				a.Close()
				return nil, err
			}
		}
		a.pgStore = postgres.NewOverrideStore(conn, logger, cfg.Postgres.SessionTTL)
		repo = a.pgStore
		checkers = append(checkers, handlers.CheckerFunc{ComponentName: "postgres", Fn: conn.HealthCheck})
	}
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(redis.ClientConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			DialTimeout: cfg.Redis.DialTimeout,
		}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		if repo == nil {
			repo = redis.NewOverrideStore(client, logger, cfg.Redis.KeyPrefix, cfg.Redis.SessionTTL)
		}
		cache := redis.NewRedisCache(client, logger, redis.WithPrefix(cfg.Redis.KeyPrefix+"check:"))
		locker := redis.NewSessionLocker(redis.NewLockFactory(client, cfg.Redis.KeyPrefix, logger))
		svcOpts = append(svcOpts,
			consistency.WithResultCache(cache, cfg.Redis.ResultTTL),
			consistency.WithSessionLocker(locker),
		)
		checkers = append(checkers, handlers.CheckerFunc{ComponentName: "redis", Fn: client.Ping})
	}

	svc := consistency.NewService(repo, logger, svcOpts...)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		AnalysisHandler:  handlers.NewAnalysisHandler(svc, logger),
		HealthHandler:    handlers.NewHealthHandler(Version, checkers...),
		Logger:           logger,
		LoggingConfig:    middleware.DefaultLoggingConfig(),
		Metrics:          metrics,
		MetricsCollector: collector,
		MetricsPath:      cfg.Metrics.Path,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		MaxConcurrent:    cfg.Server.MaxConcurrent,
	})
	a.server = httpapi.NewServer(cfg.Server, router, logger)
	return a, nil
}

// Close releases the Redis client and the Postgres pool, if any.
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", logging.Err(err))
		}
	}
	if a.pg != nil {
		_ = a.pg.Close()
	}
}

//Personal.AI order the ending
