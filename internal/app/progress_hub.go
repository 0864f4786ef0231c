package app

import (
	"sync"

	"github.com/yourusername/ydl-go/internal/domain"
)

// ProgressHub fans progress events out to subscribers.
// Publish never blocks: a subscriber whose buffer is full misses the event.
type ProgressHub struct {
	mu     sync.RWMutex
	subs   map[<-chan domain.ProgressEvent]chan domain.ProgressEvent
	buffer int
}

// NewProgressHub creates a hub giving each subscriber a buffer of size buffer
func NewProgressHub(buffer int) *ProgressHub {
	if buffer < 1 {
		buffer = 1
	}
	return &ProgressHub{
		subs:   make(map[<-chan domain.ProgressEvent]chan domain.ProgressEvent),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber
func (h *ProgressHub) Subscribe() <-chan domain.ProgressEvent {
	ch := make(chan domain.ProgressEvent, h.buffer)

	h.mu.Lock()
	h.subs[ch] = ch
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel
func (h *ProgressHub) Unsubscribe(sub <-chan domain.ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(ch)
	}
}

// Publish delivers ev to every subscriber with room for it
func (h *ProgressHub) Publish(ev domain.ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (h *ProgressHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
