package eventbus

import (
	"context"
	"errors"
	"testing"
)

func TestBusPublishToSubscribers(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(EventGenerated, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})

	err := bus.Publish(context.Background(), Event{
		Type:           EventGenerated,
		EntryID:        "e-1",
		RepositoryName: "widget",
	})
	if err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if len(got) != 1 || got[0].EntryID != "e-1" {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestBusPublishSkipsOtherTypes(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe(EventRefined, func(context.Context, Event) error {
		called = true
		return nil
	})

	if err := bus.Publish(context.Background(), Event{Type: EventGenerated}); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if called {
		t.Error("expected handler for another type not to fire")
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	unsub := bus.Subscribe(EventGenerated, func(context.Context, Event) error {
		calls++
		return nil
	})

	bus.Publish(context.Background(), Event{Type: EventGenerated})
	unsub()
	bus.Publish(context.Background(), Event{Type: EventGenerated})

	if calls != 1 {
		t.Fatalf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestBusPublishJoinsErrors(t *testing.T) {
	bus := NewBus()

	failure := errors.New("export failed")
	bus.Subscribe(EventGenerated, func(context.Context, Event) error {
		return failure
	})
	bus.Subscribe(EventGenerated, func(context.Context, Event) error {
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: EventGenerated})
	if !errors.Is(err, failure) {
		t.Fatalf("expected joined error to wrap handler failure, got %v", err)
	}
}
