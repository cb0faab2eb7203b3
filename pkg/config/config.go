package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Port Settings
	ServerAddr string `yaml:"serverAddr"` // The address the API server binds to.

	// DB Settings
	Postgres struct {
		Host     string   `yaml:"host"`
		Port     string   `yaml:"port"`
		DBName   string   `yaml:"dbname"`
		User     string   `yaml:"user"`
		Password string   `yaml:"password"`
		SSLMode  string   `yaml:"sslmode"`
		TimeZone string   `yaml:"timeZone"`
		Replicas []string `yaml:"replicas"` // optional read-replica hosts
	} `yaml:"postgres"`

	// Tombstone retention. When enabled, soft-deleted rows older than
	// RetainDays are purged on the cron schedule.
	Cleanup struct {
		Enable     bool   `yaml:"enable"`
		Spec       string `yaml:"spec"`
		RetainDays int    `yaml:"retainDays"`
	} `yaml:"cleanup"`
}

// Load reads the yaml config at path (optional) and applies environment
// overrides on top. Every field has a workable default for local runs.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.ServerAddr = ":8080"
	cfg.Postgres.Host = "localhost"
	cfg.Postgres.Port = "5432"
	cfg.Postgres.DBName = "nexboard"
	cfg.Postgres.User = "postgres"
	cfg.Postgres.SSLMode = "disable"
	cfg.Postgres.TimeZone = "UTC"
	cfg.Cleanup.Spec = "0 3 * * *"
	cfg.Cleanup.RetainDays = 30

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ServerAddr = getEnv("SERVER_ADDR", cfg.ServerAddr)
	cfg.Postgres.Host = getEnv("DB_HOST", cfg.Postgres.Host)
	cfg.Postgres.Port = getEnv("DB_PORT", cfg.Postgres.Port)
	cfg.Postgres.DBName = getEnv("DB_NAME", cfg.Postgres.DBName)
	cfg.Postgres.User = getEnv("DB_USER", cfg.Postgres.User)
	cfg.Postgres.Password = getEnv("DB_PASSWORD", cfg.Postgres.Password)
	cfg.Postgres.SSLMode = getEnv("DB_SSLMODE", cfg.Postgres.SSLMode)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
