// Package daemon provides the long-running background translation service
// and its localhost HTTP API.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bytewatt/loglingo/internal/classify"
	"github.com/bytewatt/loglingo/internal/pipeline"
	"github.com/bytewatt/loglingo/internal/translate"
)

// Config controls the daemon runtime behavior.
type Config struct {
	LogPath      string
	Engine       string
	Target       string
	Addr         string
	EventsBuffer int
}

// Event is published for every kept chat line and every translation result.
type Event struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"` // "chat" or "translation"
	Timestamp  time.Time `json:"timestamp"`
	Category   string    `json:"category,omitempty"`
	Channel    string    `json:"channel,omitempty"`
	Speaker    string    `json:"speaker,omitempty"`
	Text       string    `json:"text"`
	Translated string    `json:"translated,omitempty"`
	CacheHit   bool      `json:"cache_hit,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time          `json:"started_at"`
	LogPath         string             `json:"log_path"`
	Engine          string             `json:"engine"`
	Target          string             `json:"target"`
	Lines           int64              `json:"lines"`
	Stats           translate.Snapshot `json:"stats"`
	LastError       string             `json:"last_error,omitempty"`
	EventCount      int                `json:"event_count"`
	SubscriberCount int                `json:"subscriber_count"`
}

// Service runs the monitor pipeline and exposes it over HTTP.
type Service struct {
	cfg     Config
	logger  zerolog.Logger
	monitor *pipeline.Monitor

	mu          sync.RWMutex
	startedAt   time.Time
	lines       int64
	lastError   string
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a daemon service with the provided config. Attach a monitor
// built with the service's OnClassified and OnResult hooks before Run.
func New(cfg Config, logger zerolog.Logger) *Service {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8732"
	}
	return &Service{
		cfg:       cfg,
		logger:    logger,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Attach binds the monitor whose stats and errors the API reports.
func (s *Service) Attach(m *pipeline.Monitor) { s.monitor = m }

// Addr returns the address the HTTP API listens on.
func (s *Service) Addr() string { return s.cfg.Addr }

// OnClassified publishes a chat event for a kept line.
func (s *Service) OnClassified(msg classify.Message) {
	s.mu.Lock()
	s.lines++
	s.mu.Unlock()

	s.publishEvent(Event{
		Type:      "chat",
		Timestamp: time.Now(),
		Category:  string(msg.Category),
		Channel:   string(msg.Channel),
		Speaker:   msg.Speaker,
		Text:      msg.Body,
	})
}

// OnResult publishes a translation event for a dequeued item.
func (s *Service) OnResult(r translate.Result) {
	ev := Event{
		Type:       "translation",
		Timestamp:  time.Now(),
		Speaker:    r.Item.Speaker,
		Channel:    r.Item.Channel,
		Text:       r.Item.Text,
		Translated: r.Translated,
		CacheHit:   r.CacheHit,
	}
	if r.Err != nil {
		ev.Error = r.Err.Error()
	}
	s.publishEvent(ev)
}

// Run starts the monitor and serves the HTTP API until ctx is canceled or
// the tailer dies.
func (s *Service) Run(ctx context.Context) error {
	if s.monitor == nil {
		return errors.New("daemon: no monitor attached")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if err := s.monitor.Start(); err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return err
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.monitor.Stop()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			if err := s.monitor.Err(); err != nil {
				s.setError(err)
			}
		case err := <-errCh:
			s.monitor.Stop()
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) setError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
	s.logger.Error().Err(err).Msg("monitor failed")
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		StartedAt:       s.startedAt,
		LogPath:         s.cfg.LogPath,
		Engine:          s.cfg.Engine,
		Target:          s.cfg.Target,
		Lines:           s.lines,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
	if s.monitor != nil {
		st.Stats = s.monitor.Stats()
		st.LogPath = s.monitor.LogPath()
	}
	return st
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Replay the buffered events so late subscribers catch up.
	s.mu.RLock()
	backlog := make([]Event, len(s.events))
	copy(backlog, s.events)
	s.mu.RUnlock()
	for _, ev := range backlog {
		writeSSE(w, ev)
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
