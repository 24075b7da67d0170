package daemon

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bytewatt/loglingo/internal/classify"
	"github.com/bytewatt/loglingo/internal/translate"
)

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, zerolog.Nop())

	s.publishEvent(Event{Text: "one"})
	s.publishEvent(Event{Text: "two"})
	s.publishEvent(Event{Text: "three"})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].Text != "two" || s.events[1].Text != "three" {
		t.Fatalf("events ring = [%q, %q], want [two, three]", s.events[0].Text, s.events[1].Text)
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("event IDs = [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestOnClassifiedAndOnResult(t *testing.T) {
	s := New(Config{}, zerolog.Nop())

	s.OnClassified(classify.Message{
		Category: classify.CategoryChat,
		Channel:  classify.ChannelPublic,
		Speaker:  "Steve",
		Body:     "hello",
	})
	s.OnResult(translate.Result{
		Item:       translate.Item{Text: "hello", Speaker: "Steve", Target: "zh"},
		Translated: "你好",
	})
	s.OnResult(translate.Result{
		Item: translate.Item{Text: "broken", Target: "zh"},
		Err:  errors.New("upstream unavailable"),
	})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lines != 1 {
		t.Errorf("lines = %d, want 1", s.lines)
	}
	if len(s.events) != 3 {
		t.Fatalf("events len = %d, want 3", len(s.events))
	}
	if s.events[0].Type != "chat" || s.events[0].Speaker != "Steve" {
		t.Errorf("chat event = %+v", s.events[0])
	}
	if s.events[1].Type != "translation" || s.events[1].Translated != "你好" {
		t.Errorf("translation event = %+v", s.events[1])
	}
	if s.events[2].Error == "" {
		t.Error("failed translation event carries no error")
	}
}

func TestHandleStatus(t *testing.T) {
	s := New(Config{LogPath: "/tmp/latest.log", Engine: "echo", Target: "zh"}, zerolog.Nop())
	s.OnClassified(classify.Message{Category: classify.CategoryChat, Body: "hi"})

	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest("GET", "/v1/status", nil))

	var st Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatal(err)
	}
	if st.LogPath != "/tmp/latest.log" || st.Engine != "echo" || st.Target != "zh" {
		t.Errorf("status = %+v", st)
	}
	if st.Lines != 1 || st.EventCount != 1 {
		t.Errorf("counters = lines %d, events %d", st.Lines, st.EventCount)
	}
}

func TestHandleEvents(t *testing.T) {
	s := New(Config{}, zerolog.Nop())
	s.publishEvent(Event{Type: "chat", Text: "hello"})

	rec := httptest.NewRecorder()
	s.handleEvents(rec, httptest.NewRequest("GET", "/v1/events", nil))

	var events []Event
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Text != "hello" {
		t.Errorf("events = %+v", events)
	}
}

func TestHandleHealth(t *testing.T) {
	s := New(Config{}, zerolog.Nop())
	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Body.String() != "ok\n" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestSubscribers(t *testing.T) {
	s := New(Config{}, zerolog.Nop())

	ch := make(chan Event, 1)
	id := s.addSubscriber(ch)
	s.publishEvent(Event{Type: "chat", Text: "hello"})

	select {
	case ev := <-ch:
		if ev.Text != "hello" {
			t.Errorf("event = %+v", ev)
		}
	default:
		t.Fatal("subscriber did not receive event")
	}

	s.removeSubscriber(id)
	s.publishEvent(Event{Type: "chat", Text: "bye"})
	select {
	case ev := <-ch:
		t.Errorf("removed subscriber received %+v", ev)
	default:
	}
}
