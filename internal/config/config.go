// backend-go/internal/config/config.go
package config

import (
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Cache    CacheConfig
	Session  SessionConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type AppConfig struct {
	Timezone          string
	DefaultRange      string
	DefaultComparison string
	// MaxRangeDays caps the inclusive length of a dashboard period.
	MaxRangeDays int
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

type SessionConfig struct {
	// StorageDriver is one of memory, redis or postgres.
	StorageDriver string
	TTLSeconds    int
	CookieName    string
	SecureCookie  bool
}

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		instance = load(viper.New())
	})

	return instance
}

func load(v *viper.Viper) *Config {
	// Set default values
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "apodata")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("APP_TIMEZONE", "Europe/Paris")
	v.SetDefault("APP_DEFAULT_RANGE", "this_month")
	v.SetDefault("APP_DEFAULT_COMPARISON", "previous_year")
	v.SetDefault("APP_MAX_RANGE_DAYS", 3660)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
	v.SetDefault("SESSION_STORAGE_DRIVER", StorageMemory)
	v.SetDefault("SESSION_TTL_SECONDS", 30*24*3600)
	v.SetDefault("SESSION_COOKIE_NAME", "apodata_session")
	v.SetDefault("SESSION_SECURE_COOKIE", false)

	// Read from environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		App: AppConfig{
			Timezone:          v.GetString("APP_TIMEZONE"),
			DefaultRange:      v.GetString("APP_DEFAULT_RANGE"),
			DefaultComparison: v.GetString("APP_DEFAULT_COMPARISON"),
			MaxRangeDays:      v.GetInt("APP_MAX_RANGE_DAYS"),
		},
		Cache: CacheConfig{
			Enabled:             v.GetBool("CACHE_ENABLED"),
			RedisURL:            v.GetString("REDIS_URL"),
			RedisHost:           v.GetString("REDIS_HOST"),
			RedisPort:           v.GetString("REDIS_PORT"),
			RedisPassword:       v.GetString("REDIS_PASSWORD"),
			RedisDB:             v.GetInt("REDIS_DB"),
			DashboardTTLSeconds: v.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
		},
		Session: SessionConfig{
			StorageDriver: strings.ToLower(strings.TrimSpace(v.GetString("SESSION_STORAGE_DRIVER"))),
			TTLSeconds:    v.GetInt("SESSION_TTL_SECONDS"),
			CookieName:    v.GetString("SESSION_COOKIE_NAME"),
			SecureCookie:  v.GetBool("SESSION_SECURE_COOKIE"),
		},
	}

	switch cfg.Session.StorageDriver {
	case StorageMemory, StorageRedis, StoragePostgres:
	default:
		log.Warn().Str("driver", cfg.Session.StorageDriver).Msg("unknown session storage driver, using memory")
		cfg.Session.StorageDriver = StorageMemory
	}

	return cfg
}

// Location returns the application timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.Timezone).Msg("invalid timezone, using UTC")
		return time.UTC
	}
	return loc
}

// TTL returns the session TTL as a duration.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}
