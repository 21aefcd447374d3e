package main

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/classpick/classpick/internal/acquire"
	"github.com/classpick/classpick/internal/cache"
	"github.com/classpick/classpick/internal/catalog"
	"github.com/classpick/classpick/internal/config"
	"github.com/classpick/classpick/internal/database"
	"github.com/classpick/classpick/internal/match"
	"github.com/classpick/classpick/internal/ratings"
	"github.com/classpick/classpick/internal/source"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

// components holds the wired acquisition pipeline and everything that needs
// closing when a command finishes.
type components struct {
	cfg          *config.Config
	orchestrator *acquire.Orchestrator
	engine       *match.Engine
	closers      []func() error
}

func buildComponents() (*components, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loadConfig() > %w", err)
	}

	c := &components{cfg: cfg}

	tiers := []cache.Tier{cache.NewMemoryTier(cfg.Cache.MemorySize)}
	if cfg.Cache.UseRedis {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		c.closers = append(c.closers, redisClient.Close)
		tiers = append(tiers, cache.NewRedisTier(redisClient))
	}
	if cfg.Cache.UseDatabase {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("database.Open() > %w", err), c.Close())
		}
		c.closers = append(c.closers, db.Close)
		tiers = append(tiers, cache.NewDBTier(db))
	}
	chain := cache.NewChain(tiers)

	policy, err := source.NewRetryPolicy(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay, cfg.Retry.MaxDelay)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("source.NewRetryPolicy() > %w", err), c.Close())
	}

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL:   cfg.Catalog.BaseURL,
		UserAgent: cfg.Catalog.UserAgent,
		Timeout:   cfg.Catalog.Timeout,
	}, policy)
	c.closers = append(c.closers, catalogClient.Close)

	ratingsClient := ratings.NewClient(ratings.Config{
		GraphQLURL:    cfg.Ratings.GraphQLURL,
		SchoolID:      cfg.Ratings.SchoolID,
		Authorization: cfg.Ratings.Authorization,
		UserAgent:     cfg.Ratings.UserAgent,
		Timeout:       cfg.Ratings.Timeout,
	}, policy, ratings.NewResolver(cfg.Ratings.Threshold))
	c.closers = append(c.closers, ratingsClient.Close)

	ttl := cache.TTLPolicy{
		Courses:   cfg.Cache.CoursesTTL,
		Ratings:   cfg.Cache.RatingsTTL,
		Schedules: cfg.Cache.SchedulesTTL,
	}
	c.orchestrator = acquire.NewOrchestrator(catalogClient, ratingsClient, chain, ttl)
	c.engine = match.NewEngine(match.Weights{
		Days:        cfg.Match.Days,
		Time:        cfg.Match.Time,
		Rating:      cfg.Match.Rating,
		Priority:    cfg.Match.Priority,
		Difficulty:  cfg.Match.Difficulty,
		WouldRetake: cfg.Match.WouldRetake,
	})

	return c, nil
}

func (c *components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
