package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnvVar overrides the patterns state directory.
const HomeEnvVar = "PATTERNS_HOME"

// GetPatternsHome returns the directory holding local state (history, logs).
// Priority order:
//  1. PATTERNS_HOME environment variable (if set)
//  2. patterns under the user cache directory ($XDG_CACHE_HOME or ~/.cache on Linux)
//
// The state lives outside the working directory because the working
// directory is often the catalogue root, which is never written.
// The directory is not created here; writers create it on demand.
func GetPatternsHome() (string, error) {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home, nil
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("get user cache directory: %w", err)
	}

	return filepath.Join(cacheDir, "patterns"), nil
}

// GetHistoryDBPath returns the default path of the run history database.
// Always returns: $PATTERNS_HOME/history.db
func GetHistoryDBPath() (string, error) {
	home, err := GetPatternsHome()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, "history.db"), nil
}
