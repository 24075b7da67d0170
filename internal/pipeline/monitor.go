// Package pipeline wires the tailer, classifier, language detector, and
// translation dispatcher into the end-to-end log monitor.
package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bytewatt/loglingo/internal/classify"
	"github.com/bytewatt/loglingo/internal/lang"
	"github.com/bytewatt/loglingo/internal/tailer"
	"github.com/bytewatt/loglingo/internal/translate"
)

// Config controls a Monitor.
type Config struct {
	LogPath      string
	PollInterval time.Duration
	Options      classify.Options
	Engine       translate.Engine
	Target       string
	Capacity     int
	Debounce     time.Duration
	CacheSize    int
	Store        translate.Store // optional persistent cache
	Logger       zerolog.Logger

	// OnClassified is invoked once per kept line, before translation.
	OnClassified func(classify.Message)
	// OnResult is invoked once per dequeued translation item.
	OnResult func(translate.Result)
}

// Monitor is the running pipeline: one tailer goroutine classifying lines
// synchronously, one dispatcher worker translating them.
type Monitor struct {
	cfg Config

	tail     *tailer.Tailer
	detector lang.Detector
	dispatch *translate.Dispatcher
	stats    *translate.Stats

	mu         sync.RWMutex
	classifier *classify.Classifier

	done chan struct{}
}

// New assembles an unstarted monitor.
func New(cfg Config) (*Monitor, error) {
	cache, err := translate.NewCache(translate.CacheConfig{
		Size:   cfg.CacheSize,
		Store:  cfg.Store,
		Logger: cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("building translation cache: %w", err)
	}

	stats := translate.NewStats()
	m := &Monitor{
		cfg:        cfg,
		stats:      stats,
		classifier: classify.New(cfg.Options),
		done:       make(chan struct{}),
	}

	m.tail = tailer.New(tailer.Config{
		Path:     cfg.LogPath,
		Interval: cfg.PollInterval,
		Logger:   cfg.Logger,
	})
	m.dispatch = translate.NewDispatcher(translate.DispatcherConfig{
		Engine:   cfg.Engine,
		Cache:    cache,
		Stats:    stats,
		Capacity: cfg.Capacity,
		Debounce: cfg.Debounce,
		OnResult: cfg.OnResult,
		Logger:   cfg.Logger,
	})
	return m, nil
}

// Start begins tailing and translating.
func (m *Monitor) Start() error {
	if err := m.tail.Start(); err != nil {
		return fmt.Errorf("starting tailer: %w", err)
	}
	m.dispatch.Start()
	go m.loop()
	m.cfg.Logger.Info().Str("path", m.cfg.LogPath).Str("target", m.cfg.Target).Msg("monitor started")
	return nil
}

// Stop shuts the pipeline down in order: tailer first so no new lines
// arrive, then the dispatcher drains what is already queued.
func (m *Monitor) Stop() {
	m.tail.Stop()
	<-m.done
	m.dispatch.Stop()
	m.cfg.Logger.Info().Msg("monitor stopped")
}

// Err returns the tailer's terminal error, if any.
func (m *Monitor) Err() error { return m.tail.Err() }

// Stats returns the current translation metrics.
func (m *Monitor) Stats() translate.Snapshot { return m.stats.Snapshot() }

// Options returns the classifier's current options snapshot.
func (m *Monitor) Options() classify.Options {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.classifier.Options()
}

// SetOptions swaps in a new classifier snapshot for subsequent lines.
func (m *Monitor) SetOptions(opts classify.Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classifier = m.classifier.WithOptions(opts)
}

// LogPath returns the file being tailed.
func (m *Monitor) LogPath() string { return m.cfg.LogPath }

func (m *Monitor) loop() {
	defer close(m.done)

	for line := range m.tail.Lines() {
		m.mu.RLock()
		c := m.classifier
		m.mu.RUnlock()

		msg := c.Classify(line)
		if !msg.Keep {
			continue
		}
		if m.cfg.OnClassified != nil {
			m.cfg.OnClassified(msg)
		}

		if !msg.Translate {
			continue
		}
		if !m.detector.ShouldTranslate(msg.Body, m.cfg.Target) {
			continue
		}
		m.dispatch.Enqueue(translate.Item{
			Text:    msg.Body,
			From:    string(m.detector.Detect(msg.Body)),
			Target:  m.cfg.Target,
			Speaker: msg.Speaker,
			Channel: string(msg.Channel),
		})
	}
}
