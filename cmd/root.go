// Package cmd implements the loglingo CLI commands.
package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bytewatt/loglingo/internal/classify"
	"github.com/bytewatt/loglingo/internal/config"
	"github.com/bytewatt/loglingo/internal/pipeline"
	"github.com/bytewatt/loglingo/internal/store"
	"github.com/bytewatt/loglingo/internal/tailer"
	"github.com/bytewatt/loglingo/internal/translate"
)

var (
	flagLogFile     string
	flagTarget      string
	flagEngine      string
	flagNoFilter    bool
	flagShowAll     bool
	flagKeepSystem  bool
	flagKeepRewards bool
	flagNoPersist   bool
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "loglingo",
	Short: "Real-time game chat translator",
	Long:  "Tail a running game's chat log, classify the lines, and translate player chat in real time.",
	RunE:  runRun,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagLogFile, "log", "l", "", "Log file to tail (default: auto-discover)")
	rootCmd.PersistentFlags().StringVarP(&flagTarget, "target", "t", "", "Target language tag (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagEngine, "engine", "e", "", "Translation engine (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoFilter, "no-filter", false, "Disable line filtering")
	rootCmd.PersistentFlags().BoolVar(&flagShowAll, "show-all", false, "Show info lines as well as chat (display only, not translated)")
	rootCmd.PersistentFlags().BoolVar(&flagKeepSystem, "keep-system", false, "Keep join/leave/achievement announcements")
	rootCmd.PersistentFlags().BoolVar(&flagKeepRewards, "keep-rewards", false, "Keep reward and XP toasts")
	rootCmd.PersistentFlags().BoolVar(&flagNoPersist, "no-persist", false, "Skip the on-disk translation cache")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

// newLogger builds the console logger used by foreground commands.
func newLogger(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}

// loadConfig applies flag overrides on top of the config file.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagLogFile != "" {
		cfg.General.LogFiles = append([]string{flagLogFile}, cfg.General.LogFiles...)
	}
	if flagTarget != "" {
		cfg.Translate.Target = flagTarget
	}
	if flagEngine != "" {
		cfg.Translate.Engine = flagEngine
	}
	if flagNoFilter {
		cfg.Filter.Enabled = false
	}
	if flagShowAll {
		cfg.Filter.ShowAll = true
	}
	if flagKeepSystem {
		cfg.Filter.KeepSystem = true
	}
	if flagKeepRewards {
		cfg.Filter.KeepRewards = true
	}
	if flagNoPersist {
		cfg.Translate.PersistCache = false
	}
	return cfg, nil
}

func filterOptions(cfg config.Config) classify.Options {
	return classify.DefaultOptions().
		WithFilterEnabled(cfg.Filter.Enabled).
		WithKeepSystem(cfg.Filter.KeepSystem).
		WithKeepRewards(cfg.Filter.KeepRewards).
		WithShowAll(cfg.Filter.ShowAll)
}

// engineRegistry returns the engines compiled into this build. Provider
// clients are registered here by downstream builds; the stock binary ships
// only the echo engine, which passes text through unchanged for dry runs.
func engineRegistry() *translate.Registry {
	r := translate.NewRegistry()
	r.Register(translate.Func{ID: "echo", Fn: func(_ context.Context, text, _, _ string) (string, error) {
		return text, nil
	}})
	return r
}

// openStore opens the persistent translation cache. A nil store just means
// translations won't survive restarts, so failures degrade instead of abort.
func openStore(cfg config.Config, logger zerolog.Logger) (translate.Store, func()) {
	if !cfg.Translate.PersistCache {
		return nil, func() {}
	}
	path := cfg.Translate.CachePath
	if path == "" {
		path = store.CachePath()
	}
	c, err := store.Open(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("persistent cache unavailable")
		return nil, func() {}
	}
	return c, func() { _ = c.Close() }
}

// buildMonitor wires a monitor from the effective config. The returned
// cleanup closes the persistent cache and must run after the monitor stops.
func buildMonitor(cfg config.Config, logger zerolog.Logger,
	onClassified func(classify.Message), onResult func(translate.Result)) (*pipeline.Monitor, func(), error) {

	logPath, err := tailer.Discover(cfg.General.LogFiles)
	if err != nil {
		return nil, nil, err
	}

	engine, err := engineRegistry().Get(config.EngineName(cfg))
	if err != nil {
		return nil, nil, err
	}

	st, closeStore := openStore(cfg, logger)

	m, err := pipeline.New(pipeline.Config{
		LogPath:      logPath,
		PollInterval: cfg.PollInterval(),
		Options:      filterOptions(cfg),
		Engine:       engine,
		Target:       config.TargetLanguage(cfg),
		Capacity:     cfg.Translate.QueueCapacity,
		Debounce:     cfg.Debounce(),
		CacheSize:    cfg.Translate.CacheSize,
		Store:        st,
		Logger:       logger,
		OnClassified: onClassified,
		OnResult:     onResult,
	})
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return m, closeStore, nil
}
