package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"article-desk/internal/api"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "article-desk"
	configFile = "config.yaml"
	sessionDir = "session"

	EnvAPIURL   = "DESK_API_URL"
	EnvSession  = "DESK_SESSION"
	EnvLogLevel = "DESK_LOG_LEVEL"
)

// Config holds the settings read from config.yaml. Flags override it.
type Config struct {
	APIURL   string        `yaml:"api_url"`
	Timeout  time.Duration `yaml:"timeout"`
	Session  string        `yaml:"session"`
	LogLevel string        `yaml:"log_level"`
	// DataDir holds the badger session database. Defaults to <config dir>/session.
	DataDir string `yaml:"data_dir,omitempty"`
}

func Default() Config {
	return Config{
		APIURL:  api.DefaultBaseURL,
		Timeout: api.DefaultTimeout,
		Session: "badger",
	}
}

// Dir returns the OS-appropriate configuration directory:
//   - Linux: $XDG_CONFIG_HOME/article-desk or $HOME/.config/article-desk
//   - macOS: $HOME/.config/article-desk
//   - Windows: %LOCALAPPDATA%\article-desk
func Dir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, appName), nil
		}
		profile := os.Getenv("USERPROFILE")
		if profile == "" {
			return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
		}
		return filepath.Join(profile, "AppData", "Local", appName), nil
	case "darwin":
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the full path to config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads path. A missing file yields the defaults. Empty fields in the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.merge(file)
	return cfg, nil
}

// ApplyEnv overrides settings from DESK_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
	if v := getenv(EnvSession); v != "" {
		c.Session = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// ResolveDataDir fills DataDir next to the config file when unset.
func (c *Config) ResolveDataDir() error {
	if c.DataDir != "" {
		return nil
	}
	dir, err := Dir()
	if err != nil {
		return err
	}
	c.DataDir = filepath.Join(dir, sessionDir)
	return nil
}

// Save writes the config with user-only permissions.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) merge(o Config) {
	if o.APIURL != "" {
		c.APIURL = o.APIURL
	}
	if o.Timeout > 0 {
		c.Timeout = o.Timeout
	}
	if o.Session != "" {
		c.Session = o.Session
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.DataDir != "" {
		c.DataDir = o.DataDir
	}
}
