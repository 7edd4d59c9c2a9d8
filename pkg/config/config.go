package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds the settings read from the config file and environment.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
}

// DatabaseConfig locates the sqlite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig controls the debug log. The terminal belongs to the UI, so logs go to a file.
type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// StorageConfig names the key the task collection is stored under.
type StorageConfig struct {
	Key string `yaml:"key"`
}

// DefaultDir is where data lives unless configured otherwise: ~/.cal-tasks.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cal-tasks"
	}

	return filepath.Join(home, ".cal-tasks")
}

// DefaultConfig returns the settings used when nothing else is configured.
func DefaultConfig() *Config {
	dir := DefaultDir()

	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(dir, "tasks.sqlite")},
		Log:      LogConfig{Path: filepath.Join(dir, "debug.log"), Level: "info"},
		Storage:  StorageConfig{Key: "calendarTasks"},
	}
}

// DefaultPath is the config file read when no path is given.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load reads the YAML file at path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("error reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CALTASKS_DB"); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv("CALTASKS_LOG"); v != "" {
		c.Log.Path = v
	}

	if v := os.Getenv("CALTASKS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if v := os.Getenv("CALTASKS_STORAGE_KEY"); v != "" {
		c.Storage.Key = v
	}
}

func (c *Config) validate() error {
	if c.Database.Path == "" {
		return errors.New("database path must not be empty")
	}

	if c.Storage.Key == "" {
		return errors.New("storage key must not be empty")
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	return nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (zerolog.Level, error) {
	if c.Log.Level == "" {
		return zerolog.InfoLevel, nil
	}

	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
	}

	return level, nil
}

// Save writes the config as YAML, creating the parent directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config %s: %w", path, err)
	}

	return nil
}
