package stream

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestBroadcaster() *Broadcaster {
	return NewBroadcaster(zap.NewNop())
}

func TestSubscribeAndPublish(t *testing.T) {
	b := newTestBroadcaster()
	bookingID := uuid.New()

	ch, cancel := b.Subscribe(bookingID)
	defer cancel()

	b.Publish(bookingID, Event{Type: EventTypeStatusUpdate, Payload: "preparing"})

	select {
	case ev := <-ch:
		if ev.Type != EventTypeStatusUpdate {
			t.Errorf("event type = %q, want %q", ev.Type, EventTypeStatusUpdate)
		}
		if ev.Payload != "preparing" {
			t.Errorf("payload = %v, want preparing", ev.Payload)
		}
	default:
		t.Fatal("expected buffered event")
	}
}

func TestPublishToOtherBookingNotDelivered(t *testing.T) {
	b := newTestBroadcaster()

	ch, cancel := b.Subscribe(uuid.New())
	defer cancel()

	b.Publish(uuid.New(), Event{Type: EventTypeStatusUpdate})

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}

func TestCancelRemovesBookingEntry(t *testing.T) {
	b := newTestBroadcaster()
	bookingID := uuid.New()

	ch1, cancel1 := b.Subscribe(bookingID)
	_, cancel2 := b.Subscribe(bookingID)

	if got := b.SubscriberCount(bookingID); got != 2 {
		t.Fatalf("subscriber count = %d, want 2", got)
	}

	cancel1()
	if got := b.SubscriberCount(bookingID); got != 1 {
		t.Fatalf("subscriber count after cancel = %d, want 1", got)
	}

	// cancelled channel is closed
	if _, open := <-ch1; open {
		t.Error("cancelled subscriber channel should be closed")
	}

	cancel2()
	if got := b.SubscriberCount(bookingID); got != 0 {
		t.Fatalf("subscriber count after all cancels = %d, want 0", got)
	}

	// cancel is safe to call twice
	cancel2()
}

func TestSlowSubscriberDropped(t *testing.T) {
	b := newTestBroadcaster()
	bookingID := uuid.New()

	_, cancel := b.Subscribe(bookingID)
	defer cancel()

	// fill the buffer and push one more
	for i := 0; i <= subscriberBuffer; i++ {
		b.Publish(bookingID, Event{Type: EventTypeStatusUpdate, Payload: i})
	}

	if got := b.SubscriberCount(bookingID); got != 0 {
		t.Errorf("slow subscriber should be dropped, count = %d", got)
	}
}

func TestCloseTearsDownStreams(t *testing.T) {
	b := newTestBroadcaster()
	bookingID := uuid.New()

	ch, cancel := b.Subscribe(bookingID)
	defer cancel()

	b.Close()

	if _, open := <-ch; open {
		t.Error("channel should be closed after broadcaster Close")
	}

	// after close: subscribe returns a closed channel, publish is a no-op
	ch2, cancel2 := b.Subscribe(bookingID)
	defer cancel2()
	if _, open := <-ch2; open {
		t.Error("subscribe after Close should return a closed channel")
	}
	b.Publish(bookingID, Event{Type: EventTypeStatusUpdate})
}

func TestConcurrentSubscribePublish(t *testing.T) {
	b := newTestBroadcaster()
	bookingID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch, cancel := b.Subscribe(bookingID)
			for range ch {
			}
			_ = cancel
		}()
		go func() {
			defer wg.Done()
			b.Publish(bookingID, Event{Type: EventTypeStatusUpdate})
		}()
	}

	b.Close()
	wg.Wait()
}
