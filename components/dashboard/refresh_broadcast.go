package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	subscriberBuffer = 16
	wsPingInterval   = 30 * time.Second
	wsWriteTimeout   = 10 * time.Second
)

// BroadcastHook fans widget events out to in-process subscribers. Events
// carrying a "viewer" payload come from a viewer's own table or select
// session and only reach that viewer's subscriptions.
type BroadcastHook struct {
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[int]subscriber
	next int
}

type subscriber struct {
	viewer string
	all    bool
	ch     chan WidgetEvent
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{
		logger: slog.Default().With("component", "dashboard.broadcast"),
		subs:   make(map[int]subscriber),
	}
}

// WithLogger replaces the hook logger.
func (h *BroadcastHook) WithLogger(logger *slog.Logger) *BroadcastHook {
	if logger != nil {
		h.logger = logger.With("component", "dashboard.broadcast")
	}
	return h
}

// WidgetUpdated implements RefreshHook. Slow subscribers drop events rather
// than block the caller.
func (h *BroadcastHook) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	target := eventViewer(event)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, sub := range h.subs {
		if target != "" && !sub.all && sub.viewer != target {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			h.logger.DebugContext(ctx, "subscriber lagging, event dropped", "subscriber", id, "reason", event.Reason)
		}
	}
	return nil
}

// Subscribe returns every widget event, including viewer scoped ones, and a
// cancel func. It is meant for in-process consumers.
func (h *BroadcastHook) Subscribe() (<-chan WidgetEvent, func()) {
	return h.subscribe(subscriber{all: true})
}

// SubscribeViewer returns shared events plus the events scoped to viewerID.
// An empty viewerID only receives shared events.
func (h *BroadcastHook) SubscribeViewer(viewerID string) (<-chan WidgetEvent, func()) {
	return h.subscribe(subscriber{viewer: viewerID})
}

func (h *BroadcastHook) subscribe(sub subscriber) (<-chan WidgetEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan WidgetEvent, subscriberBuffer)
	sub.ch = ch
	h.subs[id] = sub
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub.ch)
		}
	}
	return ch, cancel
}

// Subscribers reports the number of live subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// RequestViewer resolves the subscribing viewer from the X-User-ID header,
// falling back to the "viewer" query parameter for browser clients that
// cannot set headers on WebSocket or EventSource requests.
func RequestViewer(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-User-ID")); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get("viewer"))
}

func eventViewer(event WidgetEvent) string {
	if event.Payload == nil {
		return ""
	}
	viewer, _ := event.Payload["viewer"].(string)
	return viewer
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams the viewer's widget events
// as JSON. The viewer is resolved with RequestViewer; anonymous connections
// only receive shared events.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	events, cancel := h.SubscribeViewer(RequestViewer(r))
	defer cancel()

	// Reads only detect the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case <-ping.C:
			deadline := time.Now().Add(wsWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case event, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(event); err != nil {
				h.logger.DebugContext(r.Context(), "websocket write failed", "error", err)
				return
			}
		}
	}
}

// ServeSSE streams the viewer's widget events as Server-Sent Events named
// after the event reason. The viewer is resolved like ServeWebSocket.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.SubscribeViewer(RequestViewer(r))
	defer cancel()

	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeSSE(w, event); err != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

func writeSSE(w http.ResponseWriter, event WidgetEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Reason, data)
	return err
}
