package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads config from path, or ~/.config/snip/config.yaml when path
// is empty. A missing file yields the defaults. Env overrides are applied last.
func LoadConfig(path string) (Config, error) {
	path, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg.applyEnvOverrides()
	return cfg.Resolve(filepath.Dir(path))
}

// ReadEffective is LoadConfig without validation: the file, env overrides
// and derived defaults. The config commands use it so a broken setting can
// still be shown and repaired.
func ReadEffective(path string) (Config, error) {
	path, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg.applyEnvOverrides()
	cfg.fillDefaults(filepath.Dir(path))
	return cfg, nil
}

// ReadFile returns the settings stored at path exactly as written, on top of
// DefaultConfig. It applies no env overrides; use it to edit the file.
func ReadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return cfg, nil
}

// Resolve fills derived defaults relative to dir and validates the result.
func (c Config) Resolve(dir string) (Config, error) {
	c.fillDefaults(dir)
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return DefaultPath()
}

// SaveConfig writes cfg as YAML, creating the directory if needed.
func SaveConfig(path string, cfg Config) error {
	path, err := resolvePath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
