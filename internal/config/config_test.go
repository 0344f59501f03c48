package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir()) // no .env
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", devSecret)
	t.Setenv("APP_ENV", "development")
	t.Setenv("FETCH_TIMEOUT", "30s")
	t.Setenv("JWT_EXPIRES_DAYS", "7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 30*time.Second, cfg.Quran.FetchTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTLifetime)
	assert.False(t, cfg.Production)
}

func TestLoadFallsBackOnBadNumbers(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "FILE")
	t.Setenv("DATA_DIR", "/tmp/players")
	t.Setenv("FETCH_TIMEOUT", "soon")
	t.Setenv("JWT_EXPIRES_DAYS", "many")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverFile, cfg.StoreDriver)
	assert.Equal(t, 2*time.Minute, cfg.Quran.FetchTimeout)
	assert.Equal(t, 180*24*time.Hour, cfg.JWTLifetime)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:        "5175",
			StoreDriver: DriverSQLite,
			DBPath:      "x.db",
			JWTSecret:   "s3cret",
			JWTLifetime: time.Hour,
			Quran:       QuranConfig{BaseURL: "http://api", Arabic: "quran-uthmani", FetchTimeout: time.Second},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"no port", func(c *Config) { c.Port = "" }, "PORT"},
		{"unknown driver", func(c *Config) { c.StoreDriver = "redis" }, "STORE_DRIVER"},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }, "DB_PATH"},
		{"file without dir", func(c *Config) { c.StoreDriver = DriverFile }, "DATA_DIR"},
		{"dev secret in production", func(c *Config) { c.Production, c.JWTSecret = true, devSecret }, "production"},
		{"no lifetime", func(c *Config) { c.JWTLifetime = 0 }, "JWT_EXPIRES_DAYS"},
		{"no edition", func(c *Config) { c.Quran.Arabic = "" }, "ARABIC_EDITION"},
		{"no timeout", func(c *Config) { c.Quran.FetchTimeout = 0 }, "FETCH_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	c := valid()
	c.StoreDriver = DriverMemory
	c.DBPath = ""
	assert.NoError(t, c.Validate())
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
}
