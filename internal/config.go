package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents user settings stored on disk.
type Config struct {
	// BaseURL is the backend API address.
	BaseURL string `yaml:"base_url"`
	// PublicURL is the host short links are served from; defaults to BaseURL.
	PublicURL string `yaml:"public_url,omitempty"`

	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// StorageConfig selects where the session token is kept.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file, sqlite, memory
	Path    string `yaml:"path,omitempty"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	// File receives logs while the TUI owns the terminal.
	File string `yaml:"file,omitempty"`
}

// HTTPConfig tunes the API client.
type HTTPConfig struct {
	Timeout string `yaml:"timeout"`
}

const (
	appDirName      = "snip"
	configFileName  = "config.yaml"
	storageFileJSON = "storage.json"
	storageFileDB   = "storage.db"
	logFileName     = "snip.log"
	defaultBaseURL  = "http://localhost:3000"
	defaultTimeout  = "15s"
	defaultLogLevel = "info"
	defaultBackend  = "file"
)

// Dir returns ~/.config/snip.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", appDirName), nil
}

// DefaultPath is where LoadConfig looks when no path is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() Config {
	return Config{
		BaseURL: defaultBaseURL,
		Storage: StorageConfig{Backend: defaultBackend},
		Logging: LoggingConfig{Level: defaultLogLevel},
		HTTP:    HTTPConfig{Timeout: defaultTimeout},
	}
}

// applyEnvOverrides lets SNIP_* variables win over the file.
func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("SNIP_BASE_URL")); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SNIP_PUBLIC_URL")); v != "" {
		c.PublicURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SNIP_STORAGE_BACKEND")); v != "" {
		c.Storage.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("SNIP_STORAGE_PATH")); v != "" {
		c.Storage.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("SNIP_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
}

// fillDefaults resolves empty paths relative to dir.
func (c *Config) fillDefaults(dir string) {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.PublicURL == "" {
		c.PublicURL = c.BaseURL
	}
	c.PublicURL = strings.TrimRight(c.PublicURL, "/")
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaultBackend
	}
	if c.Storage.Path == "" {
		switch c.Storage.Backend {
		case "sqlite":
			c.Storage.Path = filepath.Join(dir, storageFileDB)
		default:
			c.Storage.Path = filepath.Join(dir, storageFileJSON)
		}
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(dir, logFileName)
	}
	if c.HTTP.Timeout == "" {
		c.HTTP.Timeout = defaultTimeout
	}
}

// Validate reports settings that would break startup.
func (c Config) Validate() error {
	for name, raw := range map[string]string{"base_url": c.BaseURL, "public_url": c.PublicURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
		}
	}
	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("storage.backend must be file, sqlite or memory, got %q", c.Storage.Backend)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// RequestTimeout parses HTTP.Timeout.
func (c Config) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.HTTP.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("http.timeout must be a positive duration, got %q", c.HTTP.Timeout)
	}
	return d, nil
}

// ShortLink is the public address of a short code.
func (c Config) ShortLink(shortCode string) string {
	base := c.PublicURL
	if base == "" {
		base = c.BaseURL
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(shortCode)
}

// Keys lists the settings Set understands.
var Keys = []string{"base_url", "public_url", "storage.backend", "storage.path", "logging.level", "logging.file", "http.timeout"}

// Set changes one setting by its YAML key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "base_url":
		c.BaseURL = value
	case "public_url":
		c.PublicURL = value
	case "storage.backend":
		c.Storage.Backend = value
	case "storage.path":
		c.Storage.Path = value
	case "logging.level":
		c.Logging.Level = value
	case "logging.file":
		c.Logging.File = value
	case "http.timeout":
		c.HTTP.Timeout = value
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}
