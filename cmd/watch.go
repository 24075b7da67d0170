package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bytewatt/loglingo/internal/classify"
	"github.com/bytewatt/loglingo/internal/translate"
	"github.com/bytewatt/loglingo/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Full-screen live chat monitor",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sub := make(chan tea.Msg, 64)

	// A full or abandoned channel must never block the monitor's callbacks,
	// so events are dropped instead of queued once the UI stops draining.
	send := func(msg tea.Msg) {
		select {
		case sub <- msg:
		default:
		}
	}

	// Log output would corrupt the alternate screen.
	m, closeStore, err := buildMonitor(cfg, zerolog.Nop(),
		func(msg classify.Message) { send(tui.ChatMsg(msg)) },
		func(r translate.Result) { send(tui.TranslationMsg(r)) })
	if err != nil {
		return err
	}
	defer closeStore()

	if err := m.Start(); err != nil {
		return err
	}
	defer m.Stop()

	p := tea.NewProgram(tui.NewWatch(m, sub), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running monitor ui: %w", err)
	}
	return nil
}
