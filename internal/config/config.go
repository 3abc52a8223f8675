// Package config handles loading and parsing application configuration.
// It supports two sources for the config file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every value in the file can be overridden by its env:"..." variable.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
//
// env-required:"true" means the app refuses to start if that value is
// missing. Everything else has a default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the filesystem path to the SQLite .db file.
	// ":memory:" selects a throwaway in-memory database.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	// SeedSampleData loads the ten demo students into an empty database.
	SeedSampleData bool `yaml:"seed_sample_data" env:"SEED_SAMPLE_DATA" env-default:"false"`

	HTTPServer `yaml:"http_server"`

	Database Database `yaml:"database"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Database holds SQLite connection tuning.
type Database struct {
	// WALMode enables write-ahead logging so reads do not block on writes.
	WALMode bool `yaml:"wal_mode" env:"DATABASE_WAL_MODE"`

	// BusyTimeout is how long a connection waits on a locked database.
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"DATABASE_BUSY_TIMEOUT" env-default:"5s"`
}

// validEnvs are the accepted values of Config.Env.
var validEnvs = map[string]bool{"dev": true, "staging": true, "prod": true}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	// Verify the file exists before trying to read it, so the error says
	// what is wrong instead of a cryptic parse failure.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	// cleanenv reads the YAML file, applies env overrides and defaults,
	// and enforces env-required:"true".
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if !validEnvs[cfg.Env] {
		return nil, fmt.Errorf("invalid env %q: want dev, staging or prod", cfg.Env)
	}

	return &cfg, nil
}

// MustLoad resolves the config path from CONFIG_PATH or --config, then
// loads it. It exits the process on any failure, so if it returns the
// config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	return cfg
}
