package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bytewatt/loglingo/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println()
	if config.Exists() {
		fmt.Printf("  Config file: %s\n", config.ConfigPath())
	} else {
		fmt.Printf("  Config file: %s (not created yet, showing defaults)\n", config.ConfigPath())
	}
	fmt.Println()

	fmt.Println("  [general]")
	logFiles := "(auto-discover)"
	if len(cfg.General.LogFiles) > 0 {
		logFiles = strings.Join(cfg.General.LogFiles, ", ")
	}
	fmt.Printf("    log_files        = %s\n", logFiles)
	fmt.Printf("    poll_interval_ms = %d\n", cfg.General.PollIntervalMS)
	fmt.Println()

	fmt.Println("  [filter]")
	fmt.Printf("    enabled      = %v\n", cfg.Filter.Enabled)
	fmt.Printf("    keep_system  = %v\n", cfg.Filter.KeepSystem)
	fmt.Printf("    keep_rewards = %v\n", cfg.Filter.KeepRewards)
	fmt.Printf("    show_all     = %v\n", cfg.Filter.ShowAll)
	fmt.Println()

	fmt.Println("  [translate]")
	fmt.Printf("    engine         = %s\n", config.EngineName(cfg))
	fmt.Printf("    target         = %s\n", config.TargetLanguage(cfg))
	fmt.Printf("    queue_capacity = %d\n", cfg.Translate.QueueCapacity)
	fmt.Printf("    debounce_ms    = %d\n", cfg.Translate.DebounceMS)
	fmt.Printf("    cache_size     = %d\n", cfg.Translate.CacheSize)
	fmt.Printf("    persist_cache  = %v\n", cfg.Translate.PersistCache)
	if cfg.Translate.CachePath != "" {
		fmt.Printf("    cache_path     = %s\n", cfg.Translate.CachePath)
	}
	fmt.Println()

	fmt.Println("  [daemon]")
	fmt.Printf("    addr          = %s\n", cfg.Daemon.Addr)
	fmt.Printf("    events_buffer = %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	return nil
}
