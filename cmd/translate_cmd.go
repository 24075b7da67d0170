package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bytewatt/loglingo/internal/config"
	"github.com/bytewatt/loglingo/internal/lang"
	"github.com/bytewatt/loglingo/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate a piece of text through the configured engine",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, err := engineRegistry().Get(config.EngineName(cfg))
	if err != nil {
		return err
	}

	target := config.TargetLanguage(cfg)
	text := strings.Join(args, " ")

	translated, skipped, err := translateText(engine, target, text)
	if err != nil {
		return err
	}
	if skipped {
		fmt.Printf("  Already %s; nothing to translate.\n", target)
		return nil
	}
	fmt.Printf("  %s\n", translated)
	return nil
}

// translateText detects the source language first and skips the engine call
// when the text is already in the target language.
func translateText(engine translate.Engine, target, text string) (translated string, skipped bool, err error) {
	d := lang.NewDetector()
	if !d.ShouldTranslate(text, target) {
		return text, true, nil
	}
	from := string(d.Detect(text))
	translated, err = engine.Translate(context.Background(), text, from, target)
	if err != nil {
		return "", false, fmt.Errorf("translating with %s: %w", engine.Name(), err)
	}
	return translated, false, nil
}
