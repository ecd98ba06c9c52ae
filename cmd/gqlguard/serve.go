package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	guard "github.com/graph-gophers/graphql-guard"
	"github.com/graph-gophers/graphql-guard/config"
	"github.com/graph-gophers/graphql-guard/log"
	"github.com/graph-gophers/graphql-guard/metric"
	"github.com/graph-gophers/graphql-guard/ratelimit"
	"github.com/graph-gophers/graphql-guard/ratelimit/tokenbucket"
	"github.com/graph-gophers/graphql-guard/relay"
	"github.com/graph-gophers/graphql-guard/stats"
	gqlotel "github.com/graph-gophers/graphql-guard/trace/otel"
	"github.com/graph-gophers/graphql-guard/validation"
)

type serveOptions struct {
	listenAddress string
	upstreamURL   string
	logLevel      string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway in front of a GraphQL server",
		Long: `Serve starts a reverse proxy that checks every GraphQL request against the configured
limits. Accepted requests are forwarded to the upstream server untouched, rejected ones
are answered with a GraphQL errors response.

Examples:
  # Start with a config file
  gqlguard serve --config /etc/gqlguard/config.yaml

  # Override the upstream server
  gqlguard serve --upstream http://127.0.0.1:4000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			if opts.listenAddress != "" {
				cfg.Server.ListenAddress = opts.listenAddress
			}
			if opts.upstreamURL != "" {
				cfg.Server.UpstreamURL = opts.upstreamURL
			}
			if opts.logLevel != "" {
				cfg.Log.Level = opts.logLevel
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&opts.listenAddress, "listen", "l", "", "override the listen address")
	cmd.Flags().StringVar(&opts.upstreamURL, "upstream", "", "override the upstream GraphQL server URL")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "override the log level (debug, info, warn, error)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, level, err := log.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	guardLogger := log.NewZapLogger(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := metric.New(reg)

	limiterOpts := []guard.Option{guard.Logger(guardLogger), guard.Metrics(metrics)}
	if cfg.Tracing.Enabled {
		exporter, err := gqlotel.NewExporter(ctx, cfg.Tracing)
		if err != nil {
			return err
		}
		provider := gqlotel.NewProvider(cfg.Tracing, exporter)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				logger.Warn("tracer shutdown", zap.Error(err))
			}
		}()
		limiterOpts = append(limiterOpts, guard.Tracer(gqlotel.DefaultTracer()))
	}

	limiter, err := guard.New(cfg.Limits, guard.QueryParser{}, validation.NewRuleSet(), limiterOpts...)
	if err != nil {
		return err
	}

	target, err := url.Parse(cfg.Server.UpstreamURL)
	if err != nil {
		return fmt.Errorf("invalid upstream url: %w", err)
	}

	var rateLimiter ratelimit.RateLimiter
	if cfg.RateLimit.Enabled {
		store := tokenbucket.NewStore(cfg.RateLimit.RPS, cfg.RateLimit.Burst,
			tokenbucket.WithIdleTTL(cfg.RateLimit.IdleTTL),
			tokenbucket.WithCleanupEvery(cfg.RateLimit.CleanupEvery),
		)
		store.StartJanitor(ctx)
		rateLimiter = store
	}

	statsStore, closeStats, err := newStatsStore(ctx, cfg.Stats)
	if err != nil {
		return err
	}
	defer closeStats()

	handler := relay.New(&relay.Config{
		Limiter:      limiter,
		Upstream:     relay.NewReverseProxy(target, logger, metrics),
		RateLimiter:  rateLimiter,
		KeyFunc:      ratelimit.DefaultKeyFunc(cfg.RateLimit.KeyHeader, cfg.RateLimit.TrustForwardedFor),
		Stats:        statsStore,
		Logger:       guardLogger,
		Metrics:      metrics,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	})

	mux := http.NewServeMux()
	mux.Handle(cfg.Server.Path, handler)
	servers := []*http.Server{{
		Addr:         cfg.Server.ListenAddress,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}}

	if cfg.Server.MetricsAddress != "" {
		debugMux := http.NewServeMux()
		debugMux.Handle("/metrics", metric.Handler(reg))
		debugMux.Handle("/log/level", level)
		servers = append(servers, &http.Server{
			Addr:              cfg.Server.MetricsAddress,
			Handler:           debugMux,
			ReadHeaderTimeout: 5 * time.Second,
		})
	}

	errc := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Info("listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				errc <- fmt.Errorf("listening on %s: %w", srv.Addr, err)
			}
		}(srv)
	}
	logger.Info("gateway started",
		zap.String("upstream", target.String()),
		zap.String("path", cfg.Server.Path),
		zap.Int("query_depth", cfg.Limits.QueryDepth),
		zap.Int("query_complexity", cfg.Limits.QueryComplexity),
		zap.Bool("introspection_disabled", cfg.Limits.IntrospectionDisabled),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Bool("stats", cfg.Stats.Enabled),
		zap.Bool("tracing", cfg.Tracing.Enabled),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err = <-errc:
		logger.Error("server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if serr := srv.Shutdown(shutdownCtx); serr != nil {
			logger.Warn("shutdown", zap.String("addr", srv.Addr), zap.Error(serr))
		}
	}
	return err
}

// newStatsStore opens the configured statistics backend. The returned func releases it.
func newStatsStore(ctx context.Context, cfg config.StatsConfig) (stats.Store, func(), error) {
	if !cfg.Enabled {
		return stats.Nop{}, func() {}, nil
	}

	switch cfg.Backend {
	case "memory":
		return stats.NewMemoryStore(stats.WithTrackClients(true)), func() {}, nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		store := stats.NewRedisStore(rdb,
			stats.WithPrefix(cfg.Prefix),
			stats.WithTTL(cfg.TTL),
			stats.WithRedisTrackClients(true),
		)

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis stats ping: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported stats backend %q", cfg.Backend)
	}
}
