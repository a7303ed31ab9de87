package stream

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is one frame pushed to booking status subscribers.
type Event struct {
	Type    string
	Payload any
}

const (
	EventTypeInitial      = "INITIAL"
	EventTypeStatusUpdate = "STATUS_UPDATE"
)

// subscriber channels are buffered; a subscriber that falls this far behind
// misses the event rather than blocking the publisher.
const subscriberBuffer = 8

// Broadcaster maintains open status streams keyed by booking id. One instance
// is constructed at startup and injected into the handlers that subscribe and
// the lifecycle path that publishes. Delivery is in-process, best-effort,
// at-most-once.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]map[chan Event]struct{}
	closed bool
	log    *zap.Logger
}

func NewBroadcaster(log *zap.Logger) *Broadcaster {
	return &Broadcaster{
		subs: make(map[uuid.UUID]map[chan Event]struct{}),
		log:  log.With(zap.String("component", "broadcaster")),
	}
}

// Subscribe registers a stream for a booking id. The returned cancel func
// deregisters the stream and must be called exactly once; the channel is
// closed by the broadcaster, never by the caller.
func (b *Broadcaster) Subscribe(bookingID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	set, ok := b.subs[bookingID]
	if !ok {
		set = make(map[chan Event]struct{})
		b.subs[bookingID] = set
	}
	set[ch] = struct{}{}

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.remove(bookingID, ch)
	}

	return ch, cancel
}

// remove drops one stream and the booking entry when its set empties.
// Caller holds b.mu.
func (b *Broadcaster) remove(bookingID uuid.UUID, ch chan Event) {
	set, ok := b.subs[bookingID]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	close(ch)
	if len(set) == 0 {
		delete(b.subs, bookingID)
	}
}

// Publish pushes an event to every stream registered for the booking id.
// A full subscriber buffer drops that stream so a stalled client cannot
// hold up the status-advance path.
func (b *Broadcaster) Publish(bookingID uuid.UUID, event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	set, ok := b.subs[bookingID]
	if !ok {
		return
	}

	for ch := range set {
		select {
		case ch <- event:
		default:
			b.log.Warn("Dropping slow status stream",
				zap.String("booking_id", bookingID.String()))
			b.remove(bookingID, ch)
		}
	}
}

// SubscriberCount reports the open streams for a booking id.
func (b *Broadcaster) SubscriberCount(bookingID uuid.UUID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[bookingID])
}

// Close tears down every stream. Further Subscribe calls return a closed
// channel and Publish becomes a no-op.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for bookingID, set := range b.subs {
		for ch := range set {
			close(ch)
		}
		delete(b.subs, bookingID)
	}
}
