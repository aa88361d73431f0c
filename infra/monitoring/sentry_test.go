package monitoring

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/skyops/config"
	coremon "github.com/kilianp07/skyops/core/monitoring"
)

type captured struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (c *captured) beforeSend(ev *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
	return nil
}

func TestNewSentryMonitorEmptyDSN(t *testing.T) {
	mon, err := NewSentryMonitor(config.SentryConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := mon.(coremon.NopMonitor); !ok {
		t.Fatalf("expected NopMonitor, got %T", mon)
	}
}

func TestSentryMonitorCaptureTags(t *testing.T) {
	c := &captured{}
	mon, err := newSentryMonitor(config.SentryConfig{DSN: "https://public@sentry.example.com/1"}, c.beforeSend)
	if err != nil {
		t.Fatalf("monitor: %v", err)
	}
	mon.CaptureException(errors.New("sheet unavailable"), map[string]string{"route": "/api/pilots"})
	mon.CaptureException(nil, nil)
	mon.Flush(time.Second)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(c.events))
	}
	if c.events[0].Tags["route"] != "/api/pilots" {
		t.Fatalf("tag missing: %v", c.events[0].Tags)
	}
}

func TestSentryMonitorRecoverRepanics(t *testing.T) {
	c := &captured{}
	mon, err := newSentryMonitor(config.SentryConfig{DSN: "https://public@sentry.example.com/1"}, c.beforeSend)
	if err != nil {
		t.Fatalf("monitor: %v", err)
	}
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("expected re-panic, got %v", r)
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if len(c.events) != 1 {
			t.Fatalf("panic not reported")
		}
	}()
	func() {
		defer mon.Recover()
		panic("boom")
	}()
}
