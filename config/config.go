// Package config provides environment-based configuration for CargoExpress.
//
// Configuration is loaded from environment variables using Viper, with
// development defaults. It covers database selection, Redis connection,
// dashboard URL building, logging and the janitor interval.
//
// # Environment Variables
//
//   - DB_TYPE: Database type (sqlite, postgres, mysql). Default: sqlite
//   - DSN: Database connection string. Default: cargoexpress.db
//   - SKIP_AUTO_MIGRATE: Skip automatic database migrations. Default: false
//   - REDIS_ADDR: Redis address; empty selects the in-process cache.
//     Default: localhost:6379
//   - REDIS_PASSWORD: Redis password. Default: empty
//   - REDIS_DB: Redis database number. Default: 0
//   - DASHBOARD_BASE_URL: Externally reachable dashboard base URL.
//     Default: http://localhost:8080/dashboard
//   - PORT: HTTP server port. Default: 8080
//   - LOG_LEVEL: Logging level (debug, info, warn, error). Default: info
//   - JANITOR_INTERVAL: Expired-key sweep interval. Default: 10m
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBType           string        `mapstructure:"DB_TYPE"` // sqlite, postgres, mysql
	DSN              string        `mapstructure:"DSN"`
	SkipAutoMigrate  bool          `mapstructure:"SKIP_AUTO_MIGRATE"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int           `mapstructure:"REDIS_DB"`
	DashboardBaseURL string        `mapstructure:"DASHBOARD_BASE_URL"`
	Port             int           `mapstructure:"PORT"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	JanitorInterval  time.Duration `mapstructure:"JANITOR_INTERVAL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("DB_TYPE", "sqlite")
	viper.SetDefault("DSN", "cargoexpress.db")
	viper.SetDefault("SKIP_AUTO_MIGRATE", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("DASHBOARD_BASE_URL", "http://localhost:8080/dashboard")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JANITOR_INTERVAL", 10*time.Minute)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
