package eventbus

import (
	"testing"

	"github.com/kilianp07/skyops/core/events"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Publish(events.MatchEvent{MissionID: "PRJ001"})
	ev := <-ch
	m, ok := ev.(events.MatchEvent)
	if !ok || m.MissionID != "PRJ001" {
		t.Fatalf("unexpected event %#v", ev)
	}
	bus.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatal("expected channel closed after unsubscribe")
	}
}

func TestBusNameFilter(t *testing.T) {
	bus := New()
	statuses := bus.Subscribe(events.NameStatus)
	bus.Publish(events.MatchEvent{MissionID: "PRJ001"})
	bus.Publish(events.StatusEvent{Kind: "pilot", ID: "P001", Status: "On Leave"})
	ev := <-statuses
	if _, ok := ev.(events.StatusEvent); !ok {
		t.Fatalf("expected status event, got %T", ev)
	}
	select {
	case extra := <-statuses:
		t.Fatalf("unexpected extra event %#v", extra)
	default:
	}
}

func TestBusPublishDoesNotBlock(t *testing.T) {
	bus := NewWithBuffer(1)
	ch := bus.Subscribe()
	bus.Publish(events.MatchEvent{MissionID: "a"})
	bus.Publish(events.MatchEvent{MissionID: "b"})
	if got := (<-ch).(events.MatchEvent).MissionID; got != "a" {
		t.Fatalf("expected first event kept, got %s", got)
	}
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatal("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatal("expected ch2 closed")
	}
	late := bus.Subscribe()
	if _, ok := <-late; ok {
		t.Fatal("expected subscription after close to be closed")
	}
	bus.Publish(events.MatchEvent{})
	bus.Close()
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
