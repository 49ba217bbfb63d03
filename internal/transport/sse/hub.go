// Package sse serves the requests.changed push channel. Frames carry no
// state; subscribers refetch the request collection when one arrives.
package sse

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/workforce-admin/internal/core/events"
	"github.com/frahmantamala/workforce-admin/internal/transport"
)

const (
	defaultBuffer    = 1
	defaultHeartbeat = 25 * time.Second
)

type Hub struct {
	*transport.BaseHandler
	mu        sync.RWMutex
	clients   map[string]chan struct{}
	buffer    int
	heartbeat time.Duration
}

func NewHub(baseHandler *transport.BaseHandler, buffer int, heartbeat time.Duration) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}
	return &Hub{
		BaseHandler: baseHandler,
		clients:     make(map[string]chan struct{}),
		buffer:      buffer,
		heartbeat:   heartbeat,
	}
}

// Attach subscribes the hub to request changes on the bus.
func (h *Hub) Attach(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeRequestsChanged, h.HandleEvent)
}

// HandleEvent is an events.Handler.
func (h *Hub) HandleEvent(ctx context.Context, event events.Event) error {
	h.Broadcast()
	return nil
}

// Broadcast signals every subscriber. A subscriber whose buffer is full
// already has a refetch pending, so the signal is dropped for it.
func (h *Hub) Broadcast() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, ch := range h.clients {
		select {
		case ch <- struct{}{}:
		default:
			h.Logger.Debug("sse client already signalled", "client_id", id)
		}
	}
}

func (h *Hub) Subscribe() (string, <-chan struct{}, func()) {
	id := uuid.NewString()
	ch := make(chan struct{}, h.buffer)

	h.mu.Lock()
	h.clients[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, id)
			h.mu.Unlock()
		})
	}
	return id, ch, cancel
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP answers GET /requests/events.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session, ok := h.Session(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	id, signals, cancel := h.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "retry: 3000\n: connected %s\n\n", id)
	flusher.Flush()

	lg := h.RequestLogger(r).With("client_id", id)
	lg.Info("sse client connected", "actor_id", session.ActorID)
	defer lg.Info("sse client disconnected", "actor_id", session.ActorID)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-signals:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: {}\n\n", events.EventTypeRequestsChanged); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
