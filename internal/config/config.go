package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the store needs to come up: the Postgres
// coordinates, the Redis coordinates and the cache policy.
type Config struct {
	AppEnv   string
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the URL form both the GORM and sqlx handles accept.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// CacheConfig selects the engagement-stats cache backend: "memory" for
// the in-process store, "redis" for the shared one.
type CacheConfig struct {
	Backend        string
	TTLMinutes     int
	CleanupMinutes int
}

// Load assembles configuration in three layers: an optional .env file,
// an optional config.toml, and real environment variables on top.
// A missing config file is not an error; the environment rules.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configName := "config"
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		AppEnv: lookup("APP_ENV", "app.env", "development"),
		Database: DatabaseConfig{
			Host:     lookup("PG_HOST", "database.host", "localhost"),
			Port:     lookup("PG_PORT", "database.port", "5432"),
			User:     lookup("PG_USER", "database.user", "postgres"),
			Password: lookup("PG_PASSWORD", "database.password", "postgres"),
			Name:     lookup("PG_DB", "database.name", "vms"),
			SSLMode:  lookup("PG_SSLMODE", "database.sslmode", "disable"),
		},
		Redis: RedisConfig{
			Host:     lookup("REDIS_HOST", "redis.host", "localhost"),
			Port:     lookup("REDIS_PORT", "redis.port", "6379"),
			Password: lookup("REDIS_PASSWORD", "redis.password", ""),
			DB:       lookupInt("REDIS_DB", "redis.db", 0),
		},
		Cache: CacheConfig{
			Backend:        lookup("CACHE_BACKEND", "cache.backend", "memory"),
			TTLMinutes:     lookupInt("CACHE_TTL_MINUTES", "cache.ttl_minutes", 5),
			CleanupMinutes: lookupInt("CACHE_CLEANUP_MINUTES", "cache.cleanup_minutes", 10),
		},
	}

	return cfg, nil
}

// lookup prefers a real environment variable, then the config file,
// then the fallback.
func lookup(envKey, viperKey, fallback string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if v := viper.GetString(viperKey); v != "" {
		return v
	}
	return fallback
}

func lookupInt(envKey, viperKey string, fallback int) int {
	if v := os.Getenv(envKey); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if viper.IsSet(viperKey) {
		return viper.GetInt(viperKey)
	}
	return fallback
}
