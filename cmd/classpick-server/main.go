package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/classpick/classpick/internal/acquire"
	"github.com/classpick/classpick/internal/bootstrap"
	"github.com/classpick/classpick/internal/cache"
	"github.com/classpick/classpick/internal/catalog"
	"github.com/classpick/classpick/internal/config"
	"github.com/classpick/classpick/internal/database"
	"github.com/classpick/classpick/internal/match"
	"github.com/classpick/classpick/internal/ratings"
	"github.com/classpick/classpick/internal/server"
	"github.com/classpick/classpick/internal/source"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "classpick-server",
		Short:         "Schedule recommendation HTTP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	orchestrator, engine, err := buildPipeline(cfg, app)
	if err != nil {
		return err
	}

	handler := server.NewRecommendHandler(orchestrator, engine, logger)
	mux := http.NewServeMux()
	handler.Register(mux)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: corsMiddleware(h2c.NewHandler(mux, &http2.Server{}), cfg.Server.CORS.AllowedOrigins),
	}
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		logger.Info("starting server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	return loader.Load()
}

func buildPipeline(cfg *config.Config, app *bootstrap.App) (*acquire.Orchestrator, *match.Engine, error) {
	tiers := []cache.Tier{cache.NewMemoryTier(cfg.Cache.MemorySize)}
	if cfg.Cache.UseRedis {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		app.AddShutdownHook(func(context.Context) error { return redisClient.Close() })
		tiers = append(tiers, cache.NewRedisTier(redisClient))
	}
	if cfg.Cache.UseDatabase {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("database.Open() > %w", err)
		}
		app.AddShutdownHook(func(context.Context) error { return db.Close() })
		tiers = append(tiers, cache.NewDBTier(db))
	}
	chain := cache.NewChain(tiers)

	policy, err := source.NewRetryPolicy(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay, cfg.Retry.MaxDelay)
	if err != nil {
		return nil, nil, fmt.Errorf("source.NewRetryPolicy() > %w", err)
	}

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL:   cfg.Catalog.BaseURL,
		UserAgent: cfg.Catalog.UserAgent,
		Timeout:   cfg.Catalog.Timeout,
	}, policy)
	app.AddShutdownHook(func(context.Context) error { return catalogClient.Close() })

	ratingsClient := ratings.NewClient(ratings.Config{
		GraphQLURL:    cfg.Ratings.GraphQLURL,
		SchoolID:      cfg.Ratings.SchoolID,
		Authorization: cfg.Ratings.Authorization,
		UserAgent:     cfg.Ratings.UserAgent,
		Timeout:       cfg.Ratings.Timeout,
	}, policy, ratings.NewResolver(cfg.Ratings.Threshold))
	app.AddShutdownHook(func(context.Context) error { return ratingsClient.Close() })

	ttl := cache.TTLPolicy{
		Courses:   cfg.Cache.CoursesTTL,
		Ratings:   cfg.Cache.RatingsTTL,
		Schedules: cfg.Cache.SchedulesTTL,
	}
	orchestrator := acquire.NewOrchestrator(catalogClient, ratingsClient, chain, ttl)
	engine := match.NewEngine(match.Weights{
		Days:        cfg.Match.Days,
		Time:        cfg.Match.Time,
		Rating:      cfg.Match.Rating,
		Priority:    cfg.Match.Priority,
		Difficulty:  cfg.Match.Difficulty,
		WouldRetake: cfg.Match.WouldRetake,
	})

	return orchestrator, engine, nil
}

func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
