package events

import (
	"testing"
	"time"
)

// waitEvent receives one event or fails the test. Dispatch runs in
// goroutines, so every subscriber in these tests forwards to a channel.
func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestSubscribeByType(t *testing.T) {
	bus := NewEventBus()

	rateCh := make(chan Event, 1)
	penaltyCh := make(chan Event, 1)
	bus.Subscribe(EventRateFetched, func(ev Event) { rateCh <- ev })
	bus.Subscribe(EventPenaltyAssessed, func(ev Event) { penaltyCh <- ev })

	bus.PublishRateFetched("USD", "INR", 83.25, "static", false)

	ev := waitEvent(t, rateCh)
	if ev.Type != EventRateFetched {
		t.Errorf("type = %s, want %s", ev.Type, EventRateFetched)
	}
	if ev.Data["base"] != "USD" || ev.Data["quote"] != "INR" {
		t.Errorf("pair = %v/%v, want USD/INR", ev.Data["base"], ev.Data["quote"])
	}
	if ev.Data["rate"] != 83.25 {
		t.Errorf("rate = %v, want 83.25", ev.Data["rate"])
	}

	select {
	case ev := <-penaltyCh:
		t.Errorf("penalty subscriber received %s event", ev.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeAll(t *testing.T) {
	bus := NewEventBus()

	all := make(chan Event, 4)
	bus.SubscribeAll(func(ev Event) { all <- ev })

	bus.PublishThinCapCalculated("AY 2024-25", 175_000_000, 52_500_000, 32_500_000, false)
	bus.PublishPenaltyAssessed(1, 3, 1)

	seen := map[EventType]bool{}
	for i := 0; i < 2; i++ {
		seen[waitEvent(t, all).Type] = true
	}
	if !seen[EventThinCapCalculated] || !seen[EventPenaltyAssessed] {
		t.Errorf("catch-all missed events, saw %v", seen)
	}
}

func TestPublishFillsIDAndTimestamp(t *testing.T) {
	bus := NewEventBus()

	ch := make(chan Event, 1)
	bus.Subscribe(EventDeadlineComputed, func(ev Event) { ch <- ev })

	before := time.Now()
	bus.PublishDeadlineComputed("DRP_FILING", time.Date(2024, 4, 14, 0, 0, 0, 0, time.UTC))

	ev := waitEvent(t, ch)
	if ev.ID == "" {
		t.Error("event ID not assigned")
	}
	if ev.Timestamp.Before(before) {
		t.Errorf("timestamp %v predates publish", ev.Timestamp)
	}
	if ev.Data["deadline"] != "2024-04-14" {
		t.Errorf("deadline = %v, want formatted date", ev.Data["deadline"])
	}
}

func TestExplicitIDPreserved(t *testing.T) {
	bus := NewEventBus()

	ch := make(chan Event, 1)
	bus.SubscribeAll(func(ev Event) { ch <- ev })

	stamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	bus.Publish(Event{ID: "fixed-id", Type: EventError, Timestamp: stamp})

	ev := waitEvent(t, ch)
	if ev.ID != "fixed-id" {
		t.Errorf("ID = %s, want fixed-id", ev.ID)
	}
	if !ev.Timestamp.Equal(stamp) {
		t.Errorf("timestamp = %v, want %v", ev.Timestamp, stamp)
	}
}

func TestMultipleSubscribersSameType(t *testing.T) {
	bus := NewEventBus()

	ch := make(chan Event, 2)
	bus.Subscribe(EventComparableSearch, func(ev Event) { ch <- ev })
	bus.Subscribe(EventComparableSearch, func(ev Event) { ch <- ev })

	bus.PublishComparableSearch(5, []string{"industry=IT Services"})

	first := waitEvent(t, ch)
	second := waitEvent(t, ch)
	if first.ID != second.ID {
		t.Errorf("subscribers saw different events: %s vs %s", first.ID, second.ID)
	}
}
