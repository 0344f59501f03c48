// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

const devSecret = "dev_secret_change_me"

// Config holds all application configuration.
type Config struct {
	Port         string
	LogLevel     string
	Production   bool
	ClientOrigin string

	StoreDriver string
	DBPath      string
	DataDir     string

	JWTSecret   string
	JWTLifetime time.Duration

	Quran QuranConfig
}

// QuranConfig points at the corpus and commentary APIs.
type QuranConfig struct {
	BaseURL      string
	TafsirURL    string
	Arabic       string
	Translation  string
	Audio        string
	CorpusCache  string
	FetchTimeout time.Duration
}

// Load reads `.env` (when present) and configuration from environment
// variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		Production:   getEnv("APP_ENV", "development") == "production",
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		StoreDriver:  strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
		DBPath:       getEnv("DB_PATH", "./data/tadabbur.db"),
		DataDir:      getEnv("DATA_DIR", "./data/players"),
		JWTSecret:    getEnv("JWT_SECRET", devSecret),
		JWTLifetime:  time.Duration(getEnvInt("JWT_EXPIRES_DAYS", 180)) * 24 * time.Hour,
		Quran: QuranConfig{
			BaseURL:      getEnv("QURAN_API_BASE", "https://api.alquran.cloud/v1"),
			TafsirURL:    getEnv("TAFSIR_API_BASE", "https://quranapi.pages.dev/api/tafsir"),
			Arabic:       getEnv("ARABIC_EDITION", "quran-uthmani"),
			Translation:  getEnv("TRANSLATION_EDITION", "en.sahih"),
			Audio:        getEnv("AUDIO_EDITION", "ar.alafasy"),
			CorpusCache:  getEnv("CORPUS_CACHE", "./data/corpus.json"),
			FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 2*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH cannot be empty")
		}
	case DriverFile:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR cannot be empty")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of %s, %s, %s", DriverSQLite, DriverFile, DriverMemory)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.Production && c.JWTSecret == devSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.JWTLifetime <= 0 {
		return fmt.Errorf("JWT_EXPIRES_DAYS must be > 0")
	}
	if c.Quran.BaseURL == "" || c.Quran.Arabic == "" {
		return fmt.Errorf("QURAN_API_BASE and ARABIC_EDITION cannot be empty")
	}
	if c.Quran.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be > 0")
	}
	return nil
}

// getEnv returns the value of key or fallback if unset or empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
