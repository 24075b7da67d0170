package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bytewatt/loglingo/internal/config"
	"github.com/bytewatt/loglingo/internal/lang"
)

var detectCmd = &cobra.Command{
	Use:   "detect [text...]",
	Short: "Detect the language of a piece of text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	target := config.TargetLanguage(cfg)

	text := strings.Join(args, " ")
	d := lang.NewDetector()

	detected := d.Detect(text)
	fmt.Printf("  Language:  %s\n", detected)
	fmt.Printf("  Target:    %s\n", target)
	if d.ShouldTranslate(text, target) {
		fmt.Println("  Translate: yes")
	} else {
		fmt.Println("  Translate: no (already in target language)")
	}
	return nil
}
