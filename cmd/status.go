package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bytewatt/loglingo/internal/cli"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show translation statistics from the running daemon",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&flagDaemonAddr, "addr", "", "Daemon API address (default from config)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	addr := daemonAddr()

	st, err := probeDaemon(addr)
	if err != nil {
		return fmt.Errorf("daemon not reachable at %s: %w (is it running?)", addr, err)
	}

	fmt.Print(cli.RenderTitle("loglingo daemon"))
	fmt.Printf("  Uptime:       %s\n", cli.FormatUptime(time.Since(st.StartedAt)))
	fmt.Printf("  Tailing:      %s\n", st.LogPath)
	fmt.Printf("  Engine:       %s -> %s\n", st.Engine, st.Target)
	fmt.Printf("  Lines kept:   %s\n", cli.FormatNumber(st.Lines))
	fmt.Printf("  Subscribers:  %d\n", st.SubscriberCount)
	if st.LastError != "" {
		fmt.Printf("  Last error:   %s\n", st.LastError)
	}
	fmt.Println()
	fmt.Print(cli.RenderStats(st.Stats))
	return nil
}
