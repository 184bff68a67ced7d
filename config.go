package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"query-hub/cloud"
	"query-hub/database"
	"query-hub/middleware"

	"github.com/joho/godotenv"
)

const (
	driverMongo  = "mongo"
	driverMemory = "memory"

	cacheRedis = "redis"
	cacheLocal = "local"
	cacheNone  = "none"

	dbCredentialsSecret = "queryhub/DB_CREDENTIALS"
)

// Config holds all configuration for the query hub service.
type Config struct {
	Port     string
	Env      string
	DBDriver string

	MongoURI string
	DBUser   string
	DBPass   string
	DBHost   string
	DBName   string

	CacheDriver string
	RedisURL    string
	CacheTTL    time.Duration

	EventsTopicARN string
	AllowedOrigins []string

	UseSecrets        bool
	CloudWatchEnabled bool
}

type secretGetter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// LoadConfig reads configuration from the environment (and .env when
// present) with optional Secrets Manager override.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "5000"),
		Env:               getEnv("APP_ENV", "development"),
		DBDriver:          getEnv("DB_DRIVER", driverMongo),
		MongoURI:          os.Getenv("MONGO_URI"),
		DBUser:            os.Getenv("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            getEnv("DB_HOST", "cluster0.nrlryfn.mongodb.net"),
		DBName:            getEnv("DB_NAME", "queryHub"),
		CacheDriver:       os.Getenv("CACHE_DRIVER"),
		RedisURL:          os.Getenv("REDIS_URL"),
		CacheTTL:          ttl,
		EventsTopicARN:    os.Getenv("EVENTS_SNS_TOPIC_ARN"),
		AllowedOrigins:    middleware.ParseAllowedOrigins(os.Getenv("ALLOWED_ORIGINS")),
		UseSecrets:        os.Getenv("AWS_USE_SECRETS") == "true",
		CloudWatchEnabled: os.Getenv("CLOUDWATCH_ENABLED") == "true",
	}

	// Override DB credentials from Secrets Manager when running on AWS
	if cfg.UseSecrets {
		if awsCfg, err := cloud.LoadAWSConfig(context.Background()); err == nil {
			applySecretOverrides(context.Background(), cfg, cloud.NewSecretsClient(awsCfg))
		}
	}

	if cfg.CacheDriver == "" {
		cfg.CacheDriver = cacheNone
		if cfg.RedisURL != "" {
			cfg.CacheDriver = cacheRedis
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySecretOverrides replaces connection settings with the values stored in
// the DB credentials secret. Missing or malformed secrets leave cfg untouched.
func applySecretOverrides(ctx context.Context, cfg *Config, sm secretGetter) {
	raw, err := sm.GetSecret(ctx, dbCredentialsSecret)
	if err != nil || raw == "" {
		return
	}

	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return
	}
	if v, ok := m["MONGO_URI"]; ok && v != "" {
		cfg.MongoURI = v
	}
	if v, ok := m["DB_USER"]; ok && v != "" {
		cfg.DBUser = v
	}
	if v, ok := m["DB_PASS"]; ok && v != "" {
		cfg.DBPass = v
	}
	if v, ok := m["DB_HOST"]; ok && v != "" {
		cfg.DBHost = v
	}
}

func (c *Config) validate() error {
	if err := middleware.ValidateOrigins(c.AllowedOrigins); err != nil {
		return fmt.Errorf("invalid ALLOWED_ORIGINS: %w", err)
	}

	switch c.CacheDriver {
	case cacheNone, cacheLocal:
	case cacheRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("CACHE_DRIVER=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unknown CACHE_DRIVER %q", c.CacheDriver)
	}

	switch c.DBDriver {
	case driverMemory:
		return nil
	case driverMongo:
		if c.MongoURI == "" && (c.DBUser == "" || c.DBPass == "") {
			return fmt.Errorf("database config incomplete: set MONGO_URI or DB_USER and DB_PASS")
		}
		return nil
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
}

// ConnectionURI returns MONGO_URI when set, otherwise the Atlas SRV string
// built from the credentials.
func (c *Config) ConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return database.BuildAtlasURI(c.DBUser, c.DBPass, c.DBHost)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
