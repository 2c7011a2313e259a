// ABOUTME: glucoscope configuration with source backend selection.
// ABOUTME: Merges the JSON config file, a .env file, and GLUCOSCOPE_* environment overrides.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/glucoscope/internal/source"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Backend names.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Config stores glucoscope configuration.
type Config struct {
	// Backend selects where dataset rows come from: "csv" (default) reads
	// the flat files in DataDir, "sqlite" reads rows imported into Database.
	Backend string `json:"backend,omitempty"`

	// DataDir holds the flat CSV files (Dexcom_<id>.csv, Demographics.csv, ...).
	// Supports ~ expansion. Defaults to ~/.local/share/glucoscope.
	DataDir string `json:"data_dir,omitempty"`

	// Database is the SQLite file path. Defaults to glucoscope.db in DataDir.
	Database string `json:"database,omitempty"`

	// Timezone is the IANA zone used for source timestamps. Empty means local.
	Timezone string `json:"timezone,omitempty"`

	// Debug enables development logging.
	Debug bool `json:"debug,omitempty"`
}

// envOverrides are read from the environment after the config file.
type envOverrides struct {
	Backend  string `envconfig:"GLUCOSCOPE_BACKEND"`
	DataDir  string `envconfig:"GLUCOSCOPE_DATA_DIR"`
	Database string `envconfig:"GLUCOSCOPE_DATABASE"`
	Timezone string `envconfig:"GLUCOSCOPE_TIMEZONE"`
	Debug    *bool  `envconfig:"GLUCOSCOPE_DEBUG"`
}

// GetBackend returns the configured backend, defaulting to "csv".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendCSV
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return source.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetDatabase returns the SQLite path with ~ expanded.
func (c *Config) GetDatabase() string {
	if c.Database == "" {
		return filepath.Join(c.GetDataDir(), "glucoscope.db")
	}
	return ExpandPath(c.Database)
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenSource creates a row Source for the configured backend.
func (c *Config) OpenSource() (source.Source, error) {
	switch backend := c.GetBackend(); backend {
	case BackendCSV:
		return source.NewCSVSource(c.GetDataDir())
	case BackendSQLite:
		return source.Open(c.GetDatabase())
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "glucoscope", "config.json")
}

// Load reads the config file, then applies a .env file from the working
// directory (if any) and GLUCOSCOPE_* environment variables on top.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads config from disk only.
func LoadFile() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv overlays GLUCOSCOPE_* environment variables.
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if env.Backend != "" {
		c.Backend = env.Backend
	}
	if env.DataDir != "" {
		c.DataDir = env.DataDir
	}
	if env.Database != "" {
		c.Database = env.Database
	}
	if env.Timezone != "" {
		c.Timezone = env.Timezone
	}
	if env.Debug != nil {
		c.Debug = *env.Debug
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
