package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bytewatt/loglingo/internal/classify"
	"github.com/bytewatt/loglingo/internal/lang"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [line...]",
	Short: "Classify a raw log line and show what the pipeline would do with it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	line := strings.Join(args, " ")
	c := classify.New(filterOptions(cfg))
	msg := c.Classify(line)

	fmt.Printf("  Raw:       %s\n", line)
	fmt.Printf("  Cleaned:   %s\n", msg.Text)
	fmt.Printf("  Category:  %s\n", msg.Category)
	if msg.Category == classify.CategoryChat || msg.Category == classify.CategorySystem {
		fmt.Printf("  Channel:   %s\n", msg.Channel)
	}
	if msg.Speaker != "" {
		fmt.Printf("  Speaker:   %s\n", msg.Speaker)
		fmt.Printf("  Body:      %s\n", msg.Body)
	}
	fmt.Printf("  Kept:      %v\n", msg.Keep)
	fmt.Printf("  Translate: %v\n", msg.Translate)
	if msg.Keep {
		fmt.Printf("  Language:  %s\n", lang.NewDetector().Detect(msg.Body))
	}
	return nil
}
