package tailer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const testInterval = 10 * time.Millisecond

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatal(err)
	}
}

func startTailer(t *testing.T, path string) *Tailer {
	t.Helper()
	tl := New(Config{Path: path, Interval: testInterval, Logger: zerolog.Nop()})
	if err := tl.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(tl.Stop)
	return tl
}

func waitLine(t *testing.T, tl *Tailer) string {
	t.Helper()
	select {
	case line, ok := <-tl.Lines():
		if !ok {
			t.Fatalf("lines channel closed: %v", tl.Err())
		}
		return line
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for line")
		return ""
	}
}

func expectNoLine(t *testing.T, tl *Tailer) {
	t.Helper()
	select {
	case line, ok := <-tl.Lines():
		if ok {
			t.Fatalf("unexpected line %q", line)
		}
	case <-time.After(20 * testInterval):
	}
}

func TestTailerEmitsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.log")
	writeFile(t, path, "old line before start\n")

	tl := startTailer(t, path)
	appendFile(t, path, "first new line\nsecond new line\n")

	if got := waitLine(t, tl); got != "first new line" {
		t.Errorf("line = %q, want %q", got, "first new line")
	}
	if got := waitLine(t, tl); got != "second new line" {
		t.Errorf("line = %q, want %q", got, "second new line")
	}
}

func TestTailerDoesNotReplayExistingContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.log")
	writeFile(t, path, "history one\nhistory two\n")

	tl := startTailer(t, path)
	expectNoLine(t, tl)
}

func TestTailerTruncation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.log")
	writeFile(t, path, "")

	tl := startTailer(t, path)
	appendFile(t, path, "a fairly long line that pads the file out before rotation\n")
	if got := waitLine(t, tl); got != "a fairly long line that pads the file out before rotation" {
		t.Fatalf("line = %q", got)
	}

	if err := os.Truncate(path, 0); err != nil {
		t.Fatal(err)
	}
	// Let a few polls observe the shrunken file before writing again.
	time.Sleep(10 * testInterval)

	appendFile(t, path, "after rotation\n")
	if got := waitLine(t, tl); got != "after rotation" {
		t.Errorf("line = %q, want %q", got, "after rotation")
	}
}

func TestTailerSuppressesDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.log")
	writeFile(t, path, "")

	tl := startTailer(t, path)
	appendFile(t, path, "repeated\nrepeated\nunique\n")

	if got := waitLine(t, tl); got != "repeated" {
		t.Errorf("line = %q, want %q", got, "repeated")
	}
	if got := waitLine(t, tl); got != "unique" {
		t.Errorf("line = %q, want %q (duplicate not suppressed)", got, "unique")
	}
}

func TestTailerBuffersPartialLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.log")
	writeFile(t, path, "")

	tl := startTailer(t, path)
	appendFile(t, path, "half a ")
	expectNoLine(t, tl)

	appendFile(t, path, "line\n")
	if got := waitLine(t, tl); got != "half a line" {
		t.Errorf("line = %q, want %q", got, "half a line")
	}
}

func TestTailerDropsInvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.log")
	writeFile(t, path, "")

	tl := startTailer(t, path)
	appendFile(t, path, "ok \xff\xfe bytes\n")
	if got := waitLine(t, tl); got != "ok  bytes" {
		t.Errorf("line = %q, want %q", got, "ok  bytes")
	}
}

func TestTailerStartMissingFile(t *testing.T) {
	tl := New(Config{Path: filepath.Join(t.TempDir(), "nope.log"), Logger: zerolog.Nop()})
	if err := tl.Start(); err == nil {
		t.Error("Start on missing file did not fail")
	}
}

func TestTailerTerminalError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latest.log")
	writeFile(t, path, "")

	tl := startTailer(t, path)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	// Every poll now fails; after enough of them the tailer gives up and
	// closes the channel with a terminal error.
	select {
	case _, ok := <-tl.Lines():
		if ok {
			t.Fatal("unexpected line after file removal")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("tailer did not reach terminal error")
	}
	if tl.Err() == nil {
		t.Error("Err() = nil after terminal failure")
	}
}

func TestDedupWindow(t *testing.T) {
	d := newDedup()

	if d.observe("alpha") {
		t.Error("first observation reported as duplicate")
	}
	if !d.observe("alpha") {
		t.Error("second observation not reported as duplicate")
	}

	// Push the window past capacity so "alpha" is evicted.
	for i := 0; i < dedupWindow; i++ {
		d.observe(fmt.Sprintf("filler %d", i))
	}
	if d.observe("alpha") {
		t.Error("evicted line still reported as duplicate")
	}
}

func TestDiscoverOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.log")
	writeFile(t, path, "")

	got, err := discoverIn([]string{"", "/does/not/exist.log", path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("discoverIn = %q, want %q", got, path)
	}
}

func TestDiscoverLatestLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "latest.log")
	writeFile(t, path, "")

	got, err := discoverIn(nil, []string{filepath.Join(dir, "missing"), dir})
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("discoverIn = %q, want %q", got, path)
	}
}

func TestDiscoverNewestFallback(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "2026-08-20-1.log")
	newer := filepath.Join(dir, "fml-client")
	skipped := filepath.Join(dir, "readme.txt")
	writeFile(t, older, "")
	writeFile(t, newer, "")
	writeFile(t, skipped, "")

	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, base, base); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(skipped, base.Add(time.Hour), base.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	got, err := discoverIn(nil, []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if got != newer {
		t.Errorf("discoverIn = %q, want %q", got, newer)
	}
}

func TestDiscoverNothing(t *testing.T) {
	_, err := discoverIn(nil, []string{t.TempDir()})
	if !errors.Is(err, ErrNoLogFile) {
		t.Errorf("err = %v, want ErrNoLogFile", err)
	}
}
