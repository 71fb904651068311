package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Storage StorageConfig `mapstructure:"storage"`
}

// Validate ensures required fields are present and consistent.
func (c Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return c.Storage.Validate()
}

// LoggingConfig contains logger preferences.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// StorageConfig selects and configures the database.
type StorageConfig struct {
	Driver         string         `mapstructure:"driver"`
	Path           string         `mapstructure:"path"`
	MaxOpenConns   int            `mapstructure:"max_open_conns"`
	MigrateTimeout time.Duration  `mapstructure:"migrate_timeout"`
	Postgres       PostgresConfig `mapstructure:"postgres"`
}

// Validate checks the settings the selected driver needs.
func (s StorageConfig) Validate() error {
	switch s.Driver {
	case "sqlite3":
		if s.Path == "" {
			return errors.New("storage.path is required for sqlite3")
		}
	case "postgres":
		p := s.Postgres
		if p.User == "" || p.Password == "" || p.DBName == "" {
			return errors.New("postgres credentials are required")
		}
		if p.Host == "" {
			return errors.New("storage.postgres.host is required")
		}
	default:
		return fmt.Errorf("storage.driver %q is not one of sqlite3, postgres", s.Driver)
	}
	if s.MaxOpenConns < 0 {
		return errors.New("storage.max_open_conns must be >= 0")
	}
	return nil
}

// SQLite returns a config for a SQLite database at path, with defaults
// for everything else.
func SQLite(path string) StorageConfig {
	return StorageConfig{
		Driver:         "sqlite3",
		Path:           path,
		MaxOpenConns:   1,
		MigrateTimeout: 10 * time.Second,
	}
}

// PostgresConfig describes database connection parameters.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// DSN returns a Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode,
	)
}
