package translate

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultQueueCap is the dispatch queue capacity when none is configured.
	// The configurable range is MinQueueCap to MaxQueueCap.
	DefaultQueueCap = 6
	MinQueueCap     = 5
	MaxQueueCap     = 8

	// DefaultDebounce suppresses an identical line re-enqueued within the
	// window of the previously accepted one.
	DefaultDebounce = time.Second

	stopWait = 5 * time.Second
)

// Item is one translation request.
type Item struct {
	Text    string // trimmed source text
	From    string // detected language tag, may be empty
	Target  string // target language tag
	Speaker string
	Channel string
}

// Result is delivered to OnResult for every dequeued item.
type Result struct {
	Item       Item
	Translated string
	CacheHit   bool
	Duration   time.Duration // engine call time, zero on cache hits
	Err        error
}

// DispatcherConfig controls a Dispatcher.
type DispatcherConfig struct {
	Engine   Engine
	Cache    *Cache
	Stats    *Stats
	Capacity int
	Debounce time.Duration
	OnResult func(Result)
	Logger   zerolog.Logger
}

type entry struct {
	item Item
	stop bool
}

// Dispatcher owns the bounded translation queue and its single worker. The
// worker drains sequentially: cache check, engine call on a miss, store on
// success, record stats, deliver the result. Engine calls are not cancelled
// in flight; Stop waits for the current item to finish.
type Dispatcher struct {
	cfg   DispatcherConfig
	queue chan entry
	done  chan struct{}
	once  sync.Once

	mu       sync.Mutex
	lastText string
	lastAt   time.Time
	now      func() time.Time
	wait     time.Duration
}

// NewDispatcher returns an unstarted dispatcher. Capacity is clamped to the
// supported range; zero values take the defaults.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	switch {
	case cfg.Capacity == 0:
		cfg.Capacity = DefaultQueueCap
	case cfg.Capacity < MinQueueCap:
		cfg.Capacity = MinQueueCap
	case cfg.Capacity > MaxQueueCap:
		cfg.Capacity = MaxQueueCap
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Dispatcher{
		cfg:   cfg,
		queue: make(chan entry, cfg.Capacity),
		done:  make(chan struct{}),
		now:   time.Now,
		wait:  stopWait,
	}
}

// Start launches the worker.
func (d *Dispatcher) Start() {
	go d.work()
}

// Stop pushes the shutdown sentinel and waits for the worker to drain up to
// it. Safe to call more than once, and it returns after a bounded wait even
// when the worker was never started and the queue is full.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		select {
		case d.queue <- entry{stop: true}:
		case <-time.After(d.wait):
		}
	})
	select {
	case <-d.done:
	case <-time.After(d.wait):
	}
}

// Enqueue offers an item for translation and reports whether it was
// accepted. It never blocks: an item identical to the previously accepted
// text within the debounce window is dropped, and so is any item arriving
// while the queue is full.
func (d *Dispatcher) Enqueue(item Item) bool {
	text := strings.TrimSpace(item.Text)
	if text == "" {
		return false
	}
	item.Text = text

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if text == d.lastText && now.Sub(d.lastAt) < d.cfg.Debounce {
		return false
	}

	select {
	case d.queue <- entry{item: item}:
		d.lastText = text
		d.lastAt = now
		return true
	default:
		d.cfg.Logger.Debug().Str("text", text).Msg("translation queue full, dropping line")
		return false
	}
}

func (d *Dispatcher) work() {
	defer close(d.done)
	for e := range d.queue {
		if e.stop {
			return
		}
		d.process(e.item)
	}
}

func (d *Dispatcher) process(item Item) {
	name := d.cfg.Engine.Name()

	if translated, ok := d.cfg.Cache.Get(item.Text, name, item.Target); ok {
		d.cfg.Stats.RecordCacheHit(name)
		d.deliver(Result{Item: item, Translated: translated, CacheHit: true})
		return
	}

	start := time.Now()
	translated, err := d.cfg.Engine.Translate(context.Background(), item.Text, item.From, item.Target)
	elapsed := time.Since(start)

	if err != nil {
		d.cfg.Stats.RecordFailure(name)
		d.cfg.Logger.Warn().Err(err).Str("engine", name).Msg("translation failed")
		d.deliver(Result{Item: item, Duration: elapsed, Err: err})
		return
	}

	d.cfg.Cache.Put(item.Text, name, item.Target, translated)
	d.cfg.Stats.RecordSuccess(name, elapsed)
	d.deliver(Result{Item: item, Translated: translated, Duration: elapsed})
}

func (d *Dispatcher) deliver(r Result) {
	if d.cfg.OnResult != nil {
		d.cfg.OnResult(r)
	}
}
