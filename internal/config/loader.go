package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".cgwanki"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk YAML configuration. All fields are optional overrides;
// list fields replace the defaults when set rather than appending, except
// Blocklist which extends the built-in blocklist (pages the site breaks are
// discovered over time and should accumulate).
type File struct {
	// UserAgent overrides the request User-Agent.
	UserAgent string `yaml:"userAgent,omitempty"`

	// DelaySeconds overrides the minimum inter-request delay.
	DelaySeconds float64 `yaml:"delaySeconds,omitempty"`

	// LevelIndexes replaces the default level index URL list.
	LevelIndexes []string `yaml:"levelIndexes,omitempty"`

	// Blocklist adds page URLs to skip on top of the built-in blocklist.
	Blocklist []string `yaml:"blocklist,omitempty"`
}

// LoadConfigFile loads the YAML config file from path.
// Returns ErrConfigNotFound if the file does not exist.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file:
// 1. the explicit path, if given
// 2. .cgwanki in the current directory
// 3. .cgwanki in the user's home directory
// 4. the XDG config directory
//
// Returns the path if found, or empty string if not.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), DefaultConfigFile))

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Apply folds the file's overrides into cfg.
func (cf *File) Apply(cfg *Config) {
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.DelaySeconds > 0 {
		cfg.Delay = secondsToDuration(cf.DelaySeconds)
	}
	if len(cf.LevelIndexes) > 0 {
		cfg.LevelIndexes = cf.LevelIndexes
	}
	cfg.Blocklist = append(cfg.Blocklist, cf.Blocklist...)
}

// secondsToDuration converts a fractional seconds value to a Duration.
func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
