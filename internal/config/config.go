// Package config loads and saves the loglingo configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all loglingo configuration.
type Config struct {
	General   GeneralConfig   `toml:"general"`
	Filter    FilterConfig    `toml:"filter"`
	Translate TranslateConfig `toml:"translate"`
	Daemon    DaemonConfig    `toml:"daemon"`
}

// GeneralConfig holds log source preferences.
type GeneralConfig struct {
	// LogFiles are tried verbatim before the default client locations.
	LogFiles       []string `toml:"log_files,omitempty"`
	PollIntervalMS int      `toml:"poll_interval_ms"`
}

// FilterConfig holds the line filter toggles.
type FilterConfig struct {
	Enabled     bool `toml:"enabled"`
	KeepSystem  bool `toml:"keep_system"`
	KeepRewards bool `toml:"keep_rewards"`
	ShowAll     bool `toml:"show_all"`
}

// TranslateConfig holds engine and queue settings.
type TranslateConfig struct {
	Engine        string `toml:"engine"`
	Target        string `toml:"target"`
	QueueCapacity int    `toml:"queue_capacity"`
	DebounceMS    int    `toml:"debounce_ms"`
	CacheSize     int    `toml:"cache_size"`
	PersistCache  bool   `toml:"persist_cache"`
	CachePath     string `toml:"cache_path,omitempty"`
}

// DaemonConfig holds the background service settings.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			PollIntervalMS: 500,
		},
		Filter: FilterConfig{
			Enabled: true,
		},
		Translate: TranslateConfig{
			Engine:        "echo",
			Target:        "zh",
			QueueCapacity: 6,
			DebounceMS:    1000,
			CacheSize:     2048,
			PersistCache:  true,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8732",
			EventsBuffer: 200,
		},
	}
}

// PollInterval returns the configured poll cadence as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.General.PollIntervalMS) * time.Millisecond
}

// Debounce returns the configured debounce window as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Translate.DebounceMS) * time.Millisecond
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "loglingo")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "loglingo")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// EngineName returns the engine from the env var or config, in that order.
func EngineName(cfg Config) string {
	if name := os.Getenv("LOGLINGO_ENGINE"); name != "" {
		return name
	}
	return cfg.Translate.Engine
}

// TargetLanguage returns the target language from the env var or config, in
// that order.
func TargetLanguage(cfg Config) string {
	if tag := os.Getenv("LOGLINGO_TARGET"); tag != "" {
		return tag
	}
	return cfg.Translate.Target
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
