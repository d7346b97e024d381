package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/pf2egrid/internal/geo"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "PF2EGRID_CONFIG"

// DefaultPath is used when neither a flag nor EnvPath names a config file.
const DefaultPath = "pf2egrid.yaml"

// Config holds all configuration for the pf2egrid tools.
type Config struct {
	LogLevel string `yaml:"log_level"`

	// Grid used for scenes that do not declare their own.
	Grid geo.Grid `yaml:"grid"`

	Render   RenderConfig   `yaml:"render"`
	Database DatabaseConfig `yaml:"database"`
}

// RenderConfig holds PNG output settings.
type RenderConfig struct {
	Scale        float64 `yaml:"scale"`
	Background   string  `yaml:"background"`
	GridLines    bool    `yaml:"grid_lines"`
	Walls        bool    `yaml:"walls"`
	Tokens       bool    `yaml:"tokens"`
	FillAlpha    float64 `yaml:"fill_alpha"`
	BlockedAlpha float64 `yaml:"blocked_alpha"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Grid:     geo.DefaultGrid(),
		Render: RenderConfig{
			Scale:        1,
			Background:   "#ffffff",
			GridLines:    true,
			Walls:        true,
			Tokens:       true,
			FillAlpha:    0.25,
			BlockedAlpha: 0.5,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "pf2egrid",
			Password: "pf2egrid",
			DBName:   "pf2egrid",
			SSLMode:  "disable",
			MaxConns: 4,
		},
	}
}

// ResolvePath returns flagPath when set, else the EnvPath variable, else
// DefaultPath.
func ResolvePath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

// Load loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if !cfg.Grid.Ready() {
		return cfg, fmt.Errorf("config %s: grid size and distance must be positive", path)
	}

	return cfg, nil
}

// SlogLevel maps LogLevel to a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
