// Package config loads and persists the archiver's local settings file:
// per-run collection preferences that aren't sensitive enough to need
// the vault's AES sealing the orchestrator applies to the API hash (see
// internal/vault and internal/store's app_meta table).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sskys18/telegram-korean-search/internal/appdir"
)

const fileName = "config.json"

// Config is the archiver's persisted local settings.
type Config struct {
	CollectDMs bool `json:"collect_dms"`
}

// Load reads config.json from the app data directory. A missing file is
// not an error; it returns a zero-value Config instead.
func Load() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to config.json, replacing any existing content.
func Save(cfg Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

func configPath() (string, error) {
	home, err := appdir.DataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fileName), nil
}
