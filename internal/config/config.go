// Package config loads server settings from defaults, an optional YAML
// file, a .env file and the process environment, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"net"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // DAILY_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names
const (
	EnvConfigFile    = "KMAP_CONFIG"
	EnvHost          = "KMAP_HOST"
	EnvPort          = "KMAP_PORT"
	EnvStorageType   = "STORAGE_TYPE"
	EnvRedisURL      = "REDIS_URL"
	EnvSQLDriver     = "SQL_DRIVER"
	EnvSQLDSN        = "SQL_DSN"
	EnvDailyTimezone = "DAILY_TIMEZONE"
	EnvLogLevel      = "LOG_LEVEL"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQL    = "sql"
)

// Config is the complete server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Daily   DailyConfig   `yaml:"daily"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type           string `yaml:"type" validate:"oneof=memory redis sql"`
	RedisURL       string `yaml:"redis_url" validate:"required_if=Type redis"`
	RedisKeyPrefix string `yaml:"redis_key_prefix"`
	SQLDriver      string `yaml:"sql_driver" validate:"oneof=sqlite3 pgx"`
	SQLDSN         string `yaml:"sql_dsn" validate:"required_if=Type sql"`
}

// DailyConfig controls the daily challenge
type DailyConfig struct {
	// Timezone is the IANA zone whose midnight starts a new daily challenge
	Timezone string `yaml:"timezone" validate:"required"`
}

// LogConfig controls logging
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type:           StorageMemory,
			RedisKeyPrefix: "kmap",
			SQLDriver:      "sqlite3",
			SQLDSN:         "kmapgame.db",
		},
		Daily: DailyConfig{Timezone: "UTC"},
		Log:   LogConfig{Level: "info"},
	}
}

// Load builds the configuration. envFiles default to ".env"; missing files
// are skipped. Values from envFiles never override the real environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	dotenv := make(map[string]string)
	for _, f := range envFiles {
		values, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Config{}, fmt.Errorf("read %s: %w", f, err)
		}
		maps.Copy(dotenv, values)
	}

	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	cfg := Default()
	if path := lookup(EnvConfigFile); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) string) error {
	set := func(dst *string, key string) {
		if v := lookup(key); v != "" {
			*dst = v
		}
	}

	set(&c.Server.Host, EnvHost)
	if v := lookup(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		c.Server.Port = port
	}
	set(&c.Storage.Type, EnvStorageType)
	set(&c.Storage.RedisURL, EnvRedisURL)
	set(&c.Storage.SQLDriver, EnvSQLDriver)
	set(&c.Storage.SQLDSN, EnvSQLDSN)
	set(&c.Daily.Timezone, EnvDailyTimezone)
	set(&c.Log.Level, EnvLogLevel)
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field and that the daily timezone exists
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Addr is the host:port the server listens on
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Location resolves the daily challenge time zone
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Daily.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid daily timezone %q: %w", c.Daily.Timezone, err)
	}
	return loc, nil
}

// LogLevel returns the slog level, info if unparsable
func (c Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
