package notify

import (
	"context"
	"sync"
)

const (
	EventProcessingComplete = "processing_complete"
	EventProcessingError    = "processing_error"
)

type Event struct {
	Type       string `json:"event"`
	DocumentID int64  `json:"document_id"`
	Filename   string `json:"filename"`
	Error      string `json:"error,omitempty"`
}

// Publisher delivers processing events to an opaque client identifier.
// Delivery is at-most-once and best-effort; callers never treat a publish
// failure as fatal.
type Publisher interface {
	Publish(ctx context.Context, clientID string, ev Event) error
}

// Subscriber is the receiving side: a live event channel for one client plus
// a close function that tears the subscription down.
type Subscriber interface {
	Subscribe(ctx context.Context, clientID string) (<-chan Event, func())
}

// MemoryHub is the in-process reference Publisher: a client-id keyed set of
// buffered channels with an explicit connect/disconnect lifecycle. Deployments
// spanning multiple processes should use the Redis publisher instead.
type MemoryHub struct {
	mu    sync.RWMutex
	conns map[string]chan Event
}

func NewMemoryHub() *MemoryHub {
	return &MemoryHub{conns: make(map[string]chan Event)}
}

func (h *MemoryHub) Connect(clientID string) <-chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.conns[clientID]; ok {
		close(old)
	}
	ch := make(chan Event, 16)
	h.conns[clientID] = ch
	return ch
}

func (h *MemoryHub) Disconnect(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.conns[clientID]; ok {
		close(ch)
		delete(h.conns, clientID)
	}
}

// Subscribe adapts the connect/disconnect lifecycle to the Subscriber shape
// shared with the Redis bridge.
func (h *MemoryHub) Subscribe(ctx context.Context, clientID string) (<-chan Event, func()) {
	_ = ctx
	ch := h.Connect(clientID)
	return ch, func() { h.Disconnect(clientID) }
}

// Publish drops the event when the client is not connected or its buffer is
// full; notification must never block the pipeline. The read lock is held
// across the send so Disconnect cannot close the channel mid-publish.
func (h *MemoryHub) Publish(ctx context.Context, clientID string, ev Event) error {
	_ = ctx
	h.mu.RLock()
	defer h.mu.RUnlock()
	ch, ok := h.conns[clientID]
	if !ok {
		return nil
	}
	select {
	case ch <- ev:
	default:
	}
	return nil
}
