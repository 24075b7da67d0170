package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bytewatt/loglingo/internal/classify"
	"github.com/bytewatt/loglingo/internal/cli"
	"github.com/bytewatt/loglingo/internal/config"
	"github.com/bytewatt/loglingo/internal/translate"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Tail the log and translate chat in the foreground",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr)

	m, closeStore, err := buildMonitor(cfg, logger,
		func(msg classify.Message) {
			fmt.Println(cli.RenderChatLine(string(msg.Channel), msg.Speaker, msg.Body))
		},
		func(r translate.Result) {
			fmt.Println(cli.RenderTranslation(r))
		})
	if err != nil {
		return err
	}
	defer closeStore()

	if err := m.Start(); err != nil {
		return err
	}

	fmt.Printf("  Watching %s (target %s, engine %s)\n",
		m.LogPath(), config.TargetLanguage(cfg), config.EngineName(cfg))
	fmt.Println("  Stop with Ctrl-C.")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			if err := m.Err(); err != nil {
				m.Stop()
				return err
			}
		}
	}

	m.Stop()
	fmt.Println()
	fmt.Print(cli.RenderStats(m.Stats()))
	return nil
}
