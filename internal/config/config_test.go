package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := load(viper.New())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StorageMemory, cfg.Session.StorageDriver)
	assert.Equal(t, "apodata_session", cfg.Session.CookieName)
	assert.Equal(t, "this_month", cfg.App.DefaultRange)
	assert.Equal(t, "previous_year", cfg.App.DefaultComparison)
	assert.Equal(t, 3660, cfg.App.MaxRangeDays)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.TTL())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SESSION_STORAGE_DRIVER", " Redis ")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("APP_TIMEZONE", "Europe/Brussels")

	cfg := load(viper.New())
	assert.Equal(t, StorageRedis, cfg.Session.StorageDriver)
	assert.Equal(t, 3, cfg.Cache.RedisDB)
	assert.Equal(t, "Europe/Brussels", cfg.App.Location().String())
}

func TestLoadUnknownDriver(t *testing.T) {
	t.Setenv("SESSION_STORAGE_DRIVER", "localstorage")

	cfg := load(viper.New())
	assert.Equal(t, StorageMemory, cfg.Session.StorageDriver)
}

func TestLocationFallback(t *testing.T) {
	assert.Equal(t, time.UTC, AppConfig{Timezone: "Mars/Olympus"}.Location())
}
