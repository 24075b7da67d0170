package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/bytewatt/loglingo/internal/translate"
)

func TestTranslateText(t *testing.T) {
	engine := translate.Func{ID: "echo", Fn: func(_ context.Context, text, from, to string) (string, error) {
		return "[" + from + ">" + to + "] " + text, nil
	}}

	got, skipped, err := translateText(engine, "zh", "hello world")
	if err != nil || skipped {
		t.Fatalf("err = %v, skipped = %v", err, skipped)
	}
	if got != "[en>zh] hello world" {
		t.Errorf("translated = %q", got)
	}
}

func TestTranslateTextSkipsTargetLanguage(t *testing.T) {
	engine := translate.Func{ID: "echo", Fn: func(_ context.Context, _, _, _ string) (string, error) {
		t.Fatal("engine called for text already in the target language")
		return "", nil
	}}

	got, skipped, err := translateText(engine, "zh", "你好世界")
	if err != nil {
		t.Fatal(err)
	}
	if !skipped || got != "你好世界" {
		t.Errorf("got %q, skipped = %v", got, skipped)
	}
}

func TestTranslateTextEngineError(t *testing.T) {
	boom := errors.New("upstream unavailable")
	engine := translate.Func{ID: "echo", Fn: func(_ context.Context, _, _, _ string) (string, error) {
		return "", boom
	}}

	if _, _, err := translateText(engine, "zh", "hello"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}
