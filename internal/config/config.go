// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves the jsonvc CLI's YAML configuration file:
// which storage backend is active, its connection parameters, and where
// the node cache is persisted.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultDirName is the directory under the user's home directory holding
// the config file and, by default, the local storage tree and cache file.
const DefaultDirName = ".jsonvc"

// Config is the on-disk shape of the CLI's configuration file.
type Config struct {
	Backend   string            `yaml:"backend"`
	Params    map[string]string `yaml:"params"`
	CachePath string            `yaml:"cache_path"`
}

// Default returns the configuration a fresh install starts with: a local
// backend rooted at ~/.jsonvc/objects and a cache file at
// ~/.jsonvc/cache.json.
func Default() (*Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		Backend: "local",
		Params: map[string]string{
			"dir": filepath.Join(dir, "objects"),
		},
		CachePath: filepath.Join(dir, "cache.json"),
	}, nil
}

// DefaultDir returns ~/.jsonvc.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// DefaultPath returns ~/.jsonvc/config.yaml.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path. A missing file yields the default
// configuration rather than an error, matching the CLI's "works with zero
// setup" convention.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default()
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Params == nil {
		cfg.Params = make(map[string]string)
	}
	return &cfg, nil
}

// Save writes cfg as YAML to path, creating its parent directory if
// necessary.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Set updates a single "backend", "cache_path", or "params.<key>" entry.
func (c *Config) Set(key, value string) error {
	switch {
	case key == "backend":
		c.Backend = value
	case key == "cache_path":
		c.CachePath = value
	case len(key) > len("params.") && key[:len("params.")] == "params.":
		if c.Params == nil {
			c.Params = make(map[string]string)
		}
		c.Params[key[len("params."):]] = value
	default:
		return fmt.Errorf("config: unknown key %q", key)
	}
	return nil
}

// storagePathEnvVar overrides the configured local backend's storage
// directory at process start, for deployments that inject the path via
// environment rather than the config file (e.g. containerized runs).
const storagePathEnvVar = "JSON_STORAGE_PATH"

// ApplyEnvOverrides folds environment-variable overrides into cfg. It is
// idempotent and safe to call multiple times.
func (c *Config) ApplyEnvOverrides() {
	if c.Backend != "local" {
		return
	}
	if dir := os.Getenv(storagePathEnvVar); dir != "" {
		if c.Params == nil {
			c.Params = make(map[string]string)
		}
		c.Params["dir"] = dir
	}
}
