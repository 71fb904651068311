// Package config loads roster configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable: storage.driver is read
// from ROSTER_STORAGE_DRIVER.
const EnvPrefix = "ROSTER"

// DefaultEnvFile is read when present. Variables already set in the
// environment win over the file.
const DefaultEnvFile = ".env"

// Load reads configuration from envFile (optional) and the environment,
// applies defaults and validates the result.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	if envFile != "" {
		if envMap, err := godotenv.Read(envFile); err == nil {
			for k, val := range envMap {
				if _, exists := os.LookupEnv(k); !exists {
					_ = os.Setenv(k, val)
				}
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")

	v.SetDefault("storage.driver", "sqlite3")
	v.SetDefault("storage.path", "roster.db")
	v.SetDefault("storage.max_open_conns", 1)
	v.SetDefault("storage.migrate_timeout", 10*time.Second)

	v.SetDefault("storage.postgres.host", "localhost")
	v.SetDefault("storage.postgres.port", 5432)
	v.SetDefault("storage.postgres.user", "postgres")
	v.SetDefault("storage.postgres.password", "postgres")
	v.SetDefault("storage.postgres.db_name", "roster")
	v.SetDefault("storage.postgres.ssl_mode", "disable")
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"logging.level",
		"storage.driver",
		"storage.path",
		"storage.max_open_conns",
		"storage.migrate_timeout",
		"storage.postgres.host",
		"storage.postgres.port",
		"storage.postgres.user",
		"storage.postgres.password",
		"storage.postgres.db_name",
		"storage.postgres.ssl_mode",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}
