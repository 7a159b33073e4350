package config

import (
	"errors"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	LogLevel   string
	Port       string
	DBType     string
	SQLitePath string
	DBDSN      string
	SeedDemo   bool
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		cfg = &Config{
			Env:        getEnv("APP_ENV", "development"),
			LogLevel:   getEnv("LOG_LEVEL", "info"),
			Port:       getEnv("PORT", "8000"),
			DBType:     getEnv("STORAGE_BACKEND", "sqlite"),
			SQLitePath: getEnv("SQLITE_PATH", "data/kindle_momentum.db"),
			DBDSN:      getEnv("POSTGRES_DSN", ""),
			SeedDemo:   getEnv("SEED_DEMO", "true") == "true",
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	if c.DBType != "sqlite" && c.DBType != "postgres" {
		return errors.New("STORAGE_BACKEND must be one of: sqlite, postgres")
	}
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "sqlite" && c.SQLitePath == "" {
		return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
