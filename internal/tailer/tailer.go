// Package tailer follows a growing log file by polling, surviving rotation
// and truncation without re-emitting old lines.
package tailer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultInterval is the poll cadence when none is configured.
	DefaultInterval = 500 * time.Millisecond

	// maxConsecutiveFailures ends the tailer once every recent poll failed.
	// Transient errors below this count only stretch the poll delay.
	maxConsecutiveFailures = 8

	linesBuffer = 256
	stopTimeout = 2 * time.Second
)

// Config controls a Tailer.
type Config struct {
	Path     string
	Interval time.Duration
	Logger   zerolog.Logger
}

// Tailer polls a log file and emits appended lines on Lines. It starts at
// the current end of the file, so existing content is never replayed, and
// it resumes at the new end after truncation or rotation.
type Tailer struct {
	cfg Config

	lines chan string
	stop  chan struct{}
	done  chan struct{}
	once  sync.Once

	offset  int64
	partial []byte
	dedup   *dedup

	mu  sync.Mutex
	err error
}

// New returns an unstarted Tailer for the given config.
func New(cfg Config) *Tailer {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Tailer{
		cfg:   cfg,
		lines: make(chan string, linesBuffer),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
		dedup: newDedup(),
	}
}

// Start positions the tailer at the end of the file and begins polling.
func (t *Tailer) Start() error {
	info, err := os.Stat(t.cfg.Path)
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}
	t.offset = info.Size()
	go t.run()
	return nil
}

// Lines returns the channel of new log lines. It is closed when the tailer
// stops, whether by Stop or by a terminal error; check Err afterwards.
func (t *Tailer) Lines() <-chan string { return t.lines }

// Err returns the terminal error, if any, once Lines is closed.
func (t *Tailer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Stop ends polling and waits briefly for the poll loop to exit. Safe to
// call more than once.
func (t *Tailer) Stop() {
	t.once.Do(func() { close(t.stop) })
	select {
	case <-t.done:
	case <-time.After(stopTimeout):
	}
}

func (t *Tailer) run() {
	defer close(t.done)
	defer close(t.lines)

	failures := 0
	delay := t.cfg.Interval
	for {
		select {
		case <-t.stop:
			return
		case <-time.After(delay):
		}

		if err := t.poll(); err != nil {
			failures++
			t.cfg.Logger.Warn().Err(err).Int("consecutive", failures).Msg("log poll failed")
			if failures >= maxConsecutiveFailures {
				t.setErr(fmt.Errorf("tailing %s: %w", t.cfg.Path, err))
				return
			}
			delay = time.Duration(failures+1) * t.cfg.Interval
			continue
		}
		failures = 0
		delay = t.cfg.Interval
	}
}

// poll reads whatever was appended since the last poll and emits it.
func (t *Tailer) poll() error {
	info, err := os.Stat(t.cfg.Path)
	if err != nil {
		return err
	}
	size := info.Size()

	if size < t.offset {
		// Truncated or rotated. Resume at the new end without replaying.
		t.cfg.Logger.Info().Str("path", t.cfg.Path).Msg("log file truncated, resuming at end")
		t.offset = size
		t.partial = t.partial[:0]
		return nil
	}
	if size == t.offset {
		return nil
	}

	f, err := os.Open(t.cfg.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Seek(t.offset, io.SeekStart); err != nil {
		return err
	}
	buf := make([]byte, size-t.offset)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	t.offset += int64(n)
	t.emit(buf[:n])
	return nil
}

// emit splits the chunk into complete lines, carrying any trailing partial
// line over to the next poll. Invalid UTF-8 bytes are dropped and recently
// seen lines are suppressed.
func (t *Tailer) emit(chunk []byte) {
	data := append(t.partial, chunk...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(strings.ToValidUTF8(string(data[:i]), ""), "\r")
		data = data[i+1:]

		if strings.TrimSpace(line) == "" {
			continue
		}
		if t.dedup.observe(line) {
			continue
		}
		select {
		case t.lines <- line:
		case <-t.stop:
			return
		}
	}
	t.partial = append(t.partial[:0], data...)
}

func (t *Tailer) setErr(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
}
