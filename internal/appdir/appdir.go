// Package appdir resolves the per-user directory the archiver stores its
// database, session file, and logs under.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "telegram-korean-search"

// DataHome returns the archiver's data directory, creating it if absent.
// Overridable via ARCHIVER_DATA_HOME for tests and packaging.
func DataHome() (string, error) {
	if dir := os.Getenv("ARCHIVER_DATA_HOME"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("appdir: creating data home: %w", err)
		}
		return dir, nil
	}

	dir := filepath.Join(xdg.DataHome, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("appdir: creating data home: %w", err)
	}
	return dir, nil
}

// DatabasePath returns the full path to the SQLite database file.
func DatabasePath() (string, error) {
	home, err := DataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "tg-korean-search.db"), nil
}

// SessionPath returns the full path to the Telegram session file.
func SessionPath() (string, error) {
	home, err := DataHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "telegram.session"), nil
}
