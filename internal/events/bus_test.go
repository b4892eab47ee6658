package events

import (
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	var mu sync.Mutex
	var got []Event

	bus.Subscribe(func(e Event) {
		mu.Lock()
		got = append(got, e)
		mu.Unlock()
	}, EventTaskCreated)

	bus.Publish(NewTypedEvent(SourceRepository, TaskCreatedPayload{TaskID: "task_1", UserID: "u1", Title: "a"}))
	bus.Publish(NewTypedEvent(SourceRepository, NoteCreatedPayload{NoteID: "note_1", UserID: "u1"}))

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	})

	mu.Lock()
	defer mu.Unlock()
	if got[0].Type != EventTaskCreated {
		t.Errorf("type = %q", got[0].Type)
	}
	payload, ok := GetTaskCreatedPayload(got[0])
	if !ok {
		t.Fatal("extract payload failed")
	}
	if payload.TaskID != "task_1" || payload.UserID != "u1" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	var mu sync.Mutex
	count := 0
	unsub := bus.Subscribe(func(Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(NewTypedEvent(SourceRepository, TaskDeletedPayload{TaskID: "task_1"}))
	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	})

	unsub()
	bus.Publish(NewTypedEvent(SourceRepository, TaskDeletedPayload{TaskID: "task_2"}))
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestBusHistory(t *testing.T) {
	bus := NewBus(4)
	defer bus.Close()

	for i := 0; i < 6; i++ {
		bus.Publish(NewTypedEvent(SourceRepository, TaskDeletedPayload{TaskID: "task"}))
	}

	waitFor(t, func() bool { return len(bus.History(10)) == 4 })

	// Ring buffer keeps only the most recent bufferSize events.
	if got := len(bus.History(2)); got != 2 {
		t.Errorf("History(2) = %d events", got)
	}
}

func TestBusPublishAfterClose(t *testing.T) {
	bus := NewBus(4)
	bus.Close()
	// Must not panic.
	bus.Publish(NewTypedEvent(SourceRepository, TaskDeletedPayload{TaskID: "task"}))
}
