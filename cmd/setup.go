package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bytewatt/loglingo/internal/config"
	"github.com/bytewatt/loglingo/internal/lang"
	"github.com/bytewatt/loglingo/internal/tailer"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Existing config seeds the form defaults; missing config means defaults.
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	fmt.Println()
	fmt.Println("  Welcome to loglingo!")
	if path, err := tailer.Discover(cfg.General.LogFiles); err == nil {
		fmt.Printf("  Found a log file at %s\n", path)
	}
	fmt.Println()

	langOpts := make([]huh.Option[string], 0, len(lang.All))
	for _, l := range lang.All {
		langOpts = append(langOpts, huh.NewOption(string(l), string(l)))
	}

	engines := engineRegistry().Names()
	engineOpts := make([]huh.Option[string], 0, len(engines))
	for _, name := range engines {
		engineOpts = append(engineOpts, huh.NewOption(name, name))
	}

	logFile := ""
	if len(cfg.General.LogFiles) > 0 {
		logFile = cfg.General.LogFiles[0]
	}
	target := cfg.Translate.Target
	engine := cfg.Translate.Engine
	keepSystem := cfg.Filter.KeepSystem
	persist := cfg.Translate.PersistCache

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Target language").
				Description("Chat is translated into this language.").
				Options(langOpts...).
				Value(&target),
			huh.NewSelect[string]().
				Title("Translation engine").
				Options(engineOpts...).
				Value(&engine),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Log file").
				Description("Leave empty to auto-discover the newest client log.").
				Value(&logFile),
			huh.NewConfirm().
				Title("Keep system announcements?").
				Description("Join, leave, and achievement lines.").
				Value(&keepSystem),
			huh.NewConfirm().
				Title("Persist the translation cache to disk?").
				Value(&persist),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing saved.")
			return nil
		}
		return err
	}

	cfg.Translate.Target = target
	cfg.Translate.Engine = engine
	cfg.Filter.KeepSystem = keepSystem
	cfg.Translate.PersistCache = persist
	if logFile != "" {
		cfg.General.LogFiles = []string{logFile}
	} else {
		cfg.General.LogFiles = nil
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `loglingo setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
