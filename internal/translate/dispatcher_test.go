package translate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// countingEngine echoes its input and counts calls.
type countingEngine struct {
	calls atomic.Int64
	err   error
}

func (e *countingEngine) Name() string { return "echo" }

func (e *countingEngine) Translate(_ context.Context, text, _, _ string) (string, error) {
	e.calls.Add(1)
	if e.err != nil {
		return "", e.err
	}
	return "echo:" + text, nil
}

func newTestDispatcher(t *testing.T, engine Engine, capacity int, debounce time.Duration) (*Dispatcher, chan Result) {
	t.Helper()
	cache, err := NewCache(CacheConfig{Size: 64, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatal(err)
	}
	results := make(chan Result, 16)
	d := NewDispatcher(DispatcherConfig{
		Engine:   engine,
		Cache:    cache,
		Stats:    NewStats(),
		Capacity: capacity,
		Debounce: debounce,
		OnResult: func(r Result) { results <- r },
		Logger:   zerolog.Nop(),
	})
	return d, results
}

func waitResult(t *testing.T, results chan Result) Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for result")
		return Result{}
	}
}

func TestEnqueueCapacity(t *testing.T) {
	// Worker not started, so nothing drains: exactly Capacity items fit.
	d, _ := newTestDispatcher(t, &countingEngine{}, 5, time.Second)

	accepted := 0
	for i := 0; i < 8; i++ {
		if d.Enqueue(Item{Text: string(rune('a' + i)) + " hello", Target: "zh"}) {
			accepted++
		}
	}
	if accepted != 5 {
		t.Errorf("accepted = %d, want 5", accepted)
	}
}

func TestEnqueueDebounce(t *testing.T) {
	d, _ := newTestDispatcher(t, &countingEngine{}, 8, time.Second)

	base := time.Now()
	d.now = func() time.Time { return base }

	if !d.Enqueue(Item{Text: "same line", Target: "zh"}) {
		t.Fatal("first enqueue rejected")
	}
	if d.Enqueue(Item{Text: "same line", Target: "zh"}) {
		t.Error("identical line inside debounce window accepted")
	}
	if !d.Enqueue(Item{Text: "different line", Target: "zh"}) {
		t.Error("different line rejected")
	}

	// Past the window the same text is accepted again.
	d.now = func() time.Time { return base.Add(2 * time.Second) }
	if !d.Enqueue(Item{Text: "same line", Target: "zh"}) {
		t.Error("identical line outside debounce window rejected")
	}
}

func TestEnqueueTrimsAndRejectsEmpty(t *testing.T) {
	d, _ := newTestDispatcher(t, &countingEngine{}, 8, time.Second)

	if d.Enqueue(Item{Text: "   ", Target: "zh"}) {
		t.Error("blank item accepted")
	}
	if !d.Enqueue(Item{Text: "  padded  ", Target: "zh"}) {
		t.Fatal("padded item rejected")
	}
	if d.Enqueue(Item{Text: "padded", Target: "zh"}) {
		t.Error("debounce did not match against the trimmed text")
	}
}

func TestDispatchCacheHit(t *testing.T) {
	engine := &countingEngine{}
	d, results := newTestDispatcher(t, engine, 8, time.Nanosecond)
	d.Start()
	defer d.Stop()

	if !d.Enqueue(Item{Text: "hello", Target: "zh"}) {
		t.Fatal("enqueue rejected")
	}
	first := waitResult(t, results)
	if first.Err != nil || first.CacheHit {
		t.Fatalf("first result = %+v", first)
	}
	if first.Translated != "echo:hello" {
		t.Errorf("Translated = %q", first.Translated)
	}

	if !d.Enqueue(Item{Text: "hello", Target: "zh"}) {
		t.Fatal("second enqueue rejected")
	}
	second := waitResult(t, results)
	if !second.CacheHit {
		t.Error("second result not served from cache")
	}
	if second.Translated != "echo:hello" {
		t.Errorf("cached Translated = %q", second.Translated)
	}
	if n := engine.calls.Load(); n != 1 {
		t.Errorf("engine calls = %d, want 1", n)
	}
}

func TestDispatchFailure(t *testing.T) {
	boom := errors.New("upstream unavailable")
	engine := &countingEngine{err: boom}
	d, results := newTestDispatcher(t, engine, 8, time.Nanosecond)
	d.Start()
	defer d.Stop()

	if !d.Enqueue(Item{Text: "hello", Target: "zh"}) {
		t.Fatal("enqueue rejected")
	}
	r := waitResult(t, results)
	if !errors.Is(r.Err, boom) {
		t.Fatalf("Err = %v, want %v", r.Err, boom)
	}

	snap := d.cfg.Stats.Snapshot()
	if snap.Global.Fail != 1 || snap.Global.Total != 1 {
		t.Errorf("stats = %+v", snap.Global.Counters)
	}

	// A failure is not cached; the next attempt calls the engine again.
	engine.err = nil
	if !d.Enqueue(Item{Text: "hello", Target: "zh"}) {
		t.Fatal("retry enqueue rejected")
	}
	r = waitResult(t, results)
	if r.Err != nil || r.CacheHit {
		t.Errorf("retry result = %+v", r)
	}
	if n := engine.calls.Load(); n != 2 {
		t.Errorf("engine calls = %d, want 2", n)
	}
}

func TestStopDrainsQueue(t *testing.T) {
	engine := &countingEngine{}
	d, results := newTestDispatcher(t, engine, 8, time.Nanosecond)

	d.Enqueue(Item{Text: "one", Target: "zh"})
	d.Enqueue(Item{Text: "two", Target: "zh"})
	d.Start()
	d.Stop()

	// Both items were ahead of the sentinel and must have been processed.
	for i := 0; i < 2; i++ {
		if r := waitResult(t, results); r.Err != nil {
			t.Errorf("result %d: %v", i, r.Err)
		}
	}
	d.Stop() // second Stop is a no-op
}

func TestStopWithoutStartReturns(t *testing.T) {
	// Full queue and no worker: the sentinel send has nowhere to go, but
	// Stop must still come back.
	d, _ := newTestDispatcher(t, &countingEngine{}, 5, time.Nanosecond)
	d.wait = 50 * time.Millisecond

	for i := 0; i < 5; i++ {
		d.Enqueue(Item{Text: string(rune('a'+i)) + " line", Target: "zh"})
	}

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked with a full queue and no worker")
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(Func{ID: "echo", Fn: func(_ context.Context, text, _, _ string) (string, error) {
		return text, nil
	}})

	if _, err := r.Get("echo"); err != nil {
		t.Fatal(err)
	}

	_, err := r.Get("deepl")
	var nc *NotConfiguredError
	if !errors.As(err, &nc) {
		t.Fatalf("err = %v, want NotConfiguredError", err)
	}
	if nc.Engine != "deepl" {
		t.Errorf("Engine = %q", nc.Engine)
	}

	if got := r.Names(); len(got) != 1 || got[0] != "echo" {
		t.Errorf("Names = %v", got)
	}
}
