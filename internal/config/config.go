package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Driver string
		Path   string
		DSN    string
	}
	Log struct {
		Level  string
		Format string
	}
	Auth struct {
		JWTSecret string
		Issuer    string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SANDBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "data/sandbox.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.issuer", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.Database.Path) == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	return nil
}

// NewLogger builds the application logger described by the config.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}
