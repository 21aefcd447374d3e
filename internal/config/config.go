// Package config loads and validates the application configuration from a
// YAML file, environment variables and defaults. Malformed configuration is
// the only fatal startup condition.
package config

import (
	"fmt"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Ratings  RatingsConfig  `mapstructure:"ratings"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Match    MatchConfig    `mapstructure:"match"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"gt=0,lte=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig selects which tiers the chain uses and the per-category base
// TTLs. TTLs must be positive; the expiry derived from them is
// authoritative across every tier.
type CacheConfig struct {
	MemorySize   int           `mapstructure:"memory_size" validate:"gt=0"`
	UseRedis     bool          `mapstructure:"use_redis"`
	UseDatabase  bool          `mapstructure:"use_database"`
	CoursesTTL   time.Duration `mapstructure:"courses_ttl" validate:"gt=0"`
	RatingsTTL   time.Duration `mapstructure:"ratings_ttl" validate:"gt=0"`
	SchedulesTTL time.Duration `mapstructure:"schedules_ttl" validate:"gt=0"`
}

type CatalogConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type RatingsConfig struct {
	GraphQLURL    string        `mapstructure:"graphql_url" validate:"required,url"`
	SchoolID      string        `mapstructure:"school_id" validate:"required"`
	Authorization string        `mapstructure:"authorization"`
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Threshold     float64       `mapstructure:"threshold" validate:"gt=0"`
}

type RetryConfig struct {
	MaxAttempts uint          `mapstructure:"max_attempts" validate:"gt=0"`
	BaseDelay   time.Duration `mapstructure:"base_delay" validate:"gt=0"`
	MaxDelay    time.Duration `mapstructure:"max_delay" validate:"gt=0"`
}

// MatchConfig holds the scoring signal weights. Weights may be zero to
// disable a signal but never negative.
type MatchConfig struct {
	Days        float64 `mapstructure:"days" validate:"gte=0"`
	Time        float64 `mapstructure:"time" validate:"gte=0"`
	Rating      float64 `mapstructure:"rating" validate:"gte=0"`
	Priority    float64 `mapstructure:"priority" validate:"gte=0"`
	Difficulty  float64 `mapstructure:"difficulty" validate:"gte=0"`
	WouldRetake float64 `mapstructure:"would_retake" validate:"gte=0"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/classpick")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "classpick")
	v.SetDefault("database.username", "user")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("cache.memory_size", 1024)
	v.SetDefault("cache.use_redis", false)
	v.SetDefault("cache.use_database", false)
	v.SetDefault("cache.courses_ttl", time.Hour)
	v.SetDefault("cache.ratings_ttl", 24*time.Hour)
	v.SetDefault("cache.schedules_ttl", 30*time.Minute)
	v.SetDefault("catalog.base_url", "https://registration.gosolar.gsu.edu")
	v.SetDefault("catalog.user_agent", "classpick/1.0")
	v.SetDefault("catalog.timeout", 30*time.Second)
	v.SetDefault("ratings.graphql_url", "https://www.ratemyprofessors.com/graphql")
	v.SetDefault("ratings.school_id", "U2Nob29sLTM1Ng==")
	v.SetDefault("ratings.user_agent", "classpick/1.0")
	v.SetDefault("ratings.timeout", 30*time.Second)
	v.SetDefault("ratings.threshold", 80.0)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.base_delay", 2*time.Second)
	v.SetDefault("retry.max_delay", 10*time.Second)
	v.SetDefault("match.days", 1.0)
	v.SetDefault("match.time", 1.0)
	v.SetDefault("match.rating", 2.0)
	v.SetDefault("match.priority", 2.0)
	v.SetDefault("match.difficulty", 0.5)
	v.SetDefault("match.would_retake", 0.5)

	// Bind secrets to environment variables only (not from config file)
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("redis.password", "REDIS_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind REDIS_PASSWORD environment variable: %w", err)
	}
	if err := v.BindEnv("ratings.authorization", "RMP_AUTHORIZATION"); err != nil {
		return nil, fmt.Errorf("failed to bind RMP_AUTHORIZATION environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
