package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/patterns/internal/logger"
)

// HistoryConfig represents run history configuration
type HistoryConfig struct {
	// Enabled records every executed example in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database (empty = $PATTERNS_HOME/history.db)
	DBPath string `yaml:"db_path"`
}

// TranscriptConfig represents per-run transcript configuration
type TranscriptConfig struct {
	// Enabled writes one log file per executed example
	Enabled bool `yaml:"enabled"`

	// Dir is the directory transcripts are written to (empty = $PATTERNS_HOME/logs)
	Dir string `yaml:"dir"`
}

// Config represents patterns configuration options
type Config struct {
	// Root is the catalogue root (empty = "src" when it exists, else ".")
	Root string `yaml:"root"`

	// LogLevel sets the diagnostics verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// ExcludeDirs lists top-level directories that are never patterns
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// History contains run history configuration
	History HistoryConfig `yaml:"history"`

	// Transcripts contains per-run transcript configuration
	Transcripts TranscriptConfig `yaml:"transcripts"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Root:        "",
		LogLevel:    logger.DefaultLevel,
		ExcludeDirs: []string{"node_modules"},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  "",
		},
		Transcripts: TranscriptConfig{
			Enabled: false,
			Dir:     "",
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if fileCfg.Root != "" {
		cfg.Root = fileCfg.Root
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = normalizeLevel(fileCfg.LogLevel)
	}
	if fileCfg.ExcludeDirs != nil {
		cfg.ExcludeDirs = fileCfg.ExcludeDirs
	}

	// Nested booleans default to true/false independently of the file, so
	// only keys that are actually present override them.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if section, ok := rawMap["history"].(map[string]interface{}); ok {
			if _, exists := section["enabled"]; exists {
				cfg.History.Enabled = fileCfg.History.Enabled
			}
			if _, exists := section["db_path"]; exists {
				cfg.History.DBPath = fileCfg.History.DBPath
			}
		}
		if section, ok := rawMap["transcripts"].(map[string]interface{}); ok {
			if _, exists := section["enabled"]; exists {
				cfg.Transcripts.Enabled = fileCfg.Transcripts.Enabled
			}
			if _, exists := section["dir"]; exists {
				cfg.Transcripts.Dir = fileCfg.Transcripts.Dir
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .patterns/config.yaml in the specified directory.
// If the directory or file doesn't exist, returns default configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".patterns", "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(root *string, logLevel *string, noHistory *bool) {
	if root != nil {
		c.Root = *root
	}
	if logLevel != nil {
		c.LogLevel = normalizeLevel(*logLevel)
	}
	if noHistory != nil && *noHistory {
		c.History.Enabled = false
	}
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	for _, dir := range c.ExcludeDirs {
		if dir == "" {
			return fmt.Errorf("exclude_dirs cannot contain empty names")
		}
	}

	return nil
}

// CatalogRoot returns the configured root, or "src" when it exists in the
// working directory, or ".".
func (c *Config) CatalogRoot() string {
	if c.Root != "" {
		return c.Root
	}
	if info, err := os.Stat("src"); err == nil && info.IsDir() {
		return "src"
	}
	return "."
}

// HistoryDBPath returns the configured history database path, or the
// default location under the patterns home directory.
func (c *Config) HistoryDBPath() (string, error) {
	if c.History.DBPath != "" {
		return c.History.DBPath, nil
	}
	return GetHistoryDBPath()
}

// TranscriptDir returns the configured transcript directory, or the
// default location under the patterns home directory.
func (c *Config) TranscriptDir() (string, error) {
	if c.Transcripts.Dir != "" {
		return c.Transcripts.Dir, nil
	}
	home, err := GetPatternsHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "logs"), nil
}

// CheckOutsideRoot returns an error when path is the catalogue root or lies
// beneath it. The catalogue is never written.
func CheckOutsideRoot(path, root string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", root, err)
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return nil
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return fmt.Errorf("refusing to write %s inside catalogue root %s", path, root)
	}
	return nil
}

// normalizeLevel lowercases and trims a configured log level.
func normalizeLevel(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}
