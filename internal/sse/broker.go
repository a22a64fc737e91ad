// Package sse implements a Server-Sent Events broker that pushes vocabulary
// changes to connected clients.
package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// Event is one message for subscribers.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Event types sent to clients.
const (
	TypeFileCreated   = "vocabulary.created"
	TypeFileUpdated   = "vocabulary.updated"
	TypeFileDeleted   = "vocabulary.deleted"
	TypeEntryAdded    = "entry.added"
	TypePhraseUpdated = "phrase.updated"
	TypePoolLoaded    = "pool.loaded"
	TypeStatsUpdated  = "stats.updated"
)

var fileEventTypes = map[string]string{
	"created": TypeFileCreated,
	"updated": TypeFileUpdated,
	"deleted": TypeFileDeleted,
}

// changes lists the event types after which the category counts may differ.
var changes = map[string]bool{
	TypeFileCreated: true,
	TypeFileUpdated: true,
	TypeFileDeleted: true,
	TypeEntryAdded:  true,
	TypePoolLoaded:  true,
}

// Options configures a Broker.
type Options struct {
	// StatsThrottle is the minimum interval between two stats.updated
	// events. Defaults to 2s.
	StatsThrottle time.Duration
	// Heartbeat is how often an idle stream gets a keep-alive comment.
	// Defaults to 25s.
	Heartbeat time.Duration
	// Stats builds the stats.updated payload. When nil the payload is {}.
	Stats  func() (any, error)
	Logger *slog.Logger
}

// Broker fans vocabulary events out to SSE clients.
//
// A single loop goroutine owns the client set, the event counter and the
// stats throttle. Public methods talk to it over channels.
type Broker struct {
	statsMin  time.Duration
	heartbeat time.Duration
	stats     func() (any, error)
	logger    *slog.Logger

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker starts a broker loop. Call Close to stop it.
func NewBroker(opts Options) *Broker {
	if opts.StatsThrottle <= 0 {
		opts.StatsThrottle = 2 * time.Second
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 25 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	b := &Broker{
		statsMin:      opts.StatsThrottle,
		heartbeat:     opts.Heartbeat,
		stats:         opts.Stats,
		logger:        opts.Logger,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var (
		seq       uint64
		lastStats time.Time
	)

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			b.logger.Warn("sse: drop unencodable event", slog.String("type", event.Type), slog.String("error", err.Error()))
			return
		}
		seq++
		raw := []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", seq, event.Type, payload))

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Slow client, drop rather than stall the loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)
			if !changes[event.Type] {
				continue
			}
			if now := time.Now(); now.Sub(lastStats) >= b.statsMin {
				lastStats = now
				b.refreshStats(broadcast)
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// refreshStats sends stats.updated. A Stats callback runs off the loop and
// its result comes back through Publish.
func (b *Broker) refreshStats(broadcast func(Event)) {
	if b.stats == nil {
		broadcast(Event{Type: TypeStatsUpdated, Data: map[string]string{}})
		return
	}
	go func() {
		data, err := b.stats()
		if err != nil {
			b.logger.Warn("sse: stats unavailable", slog.String("error", err.Error()))
			return
		}
		b.Publish(Event{Type: TypeStatsUpdated, Data: data})
	}()
}

// Close stops the loop and closes every subscriber channel.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe registers a client. The channel is closed on Unsubscribe or Close.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients. Change events also
// trigger a throttled stats.updated.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishFileEvent reports a change to a vocabulary file on disk. kind is
// "created", "updated" or "deleted"; other kinds are ignored. The signature
// matches index.EventCallback.
func (b *Broker) PublishFileEvent(kind, path string) {
	typ, ok := fileEventTypes[kind]
	if !ok {
		return
	}
	b.Publish(Event{Type: typ, Data: map[string]string{"path": path}})
}

// ServeHTTP streams events to one client (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ticker := time.NewTicker(b.heartbeat)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
