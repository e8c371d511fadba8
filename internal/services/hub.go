package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Riboost-Studio/order-print-hub/internal/model"
)

const (
	defaultHubBuffer    = 32
	defaultHubQueueSize = 100
	defaultHeartbeat    = 30 * time.Second
)

// Subscriber is one connected live listener.
type Subscriber struct {
	ID     string
	events chan model.LiveEvent
}

// Events is closed when the subscriber is removed or the hub stops.
func (s *Subscriber) Events() <-chan model.LiveEvent {
	return s.events
}

// Hub fans live events out to subscribers. Orders published while nobody is
// listening are queued and flushed to the next subscriber.
type Hub struct {
	mu        sync.Mutex
	clients   map[string]*Subscriber
	queue     []model.LiveEvent
	stopped   bool
	buffer    int
	maxQueue  int
	heartbeat time.Duration
	logger    *zap.Logger
	metrics   *Metrics
	now       func() time.Time
	cancel    context.CancelFunc
}

type HubOption func(*Hub)

func WithHubLogger(logger *zap.Logger) HubOption {
	return func(h *Hub) { h.logger = logger }
}

func WithHubMetrics(m *Metrics) HubOption {
	return func(h *Hub) { h.metrics = m }
}

// WithHubBuffer sets the per-subscriber channel size.
func WithHubBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithHubQueueSize bounds the backlog kept while nobody listens.
func WithHubQueueSize(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.maxQueue = n
		}
	}
}

func WithHubHeartbeat(d time.Duration) HubOption {
	return func(h *Hub) { h.heartbeat = d }
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients:   make(map[string]*Subscriber),
		buffer:    defaultHubBuffer,
		maxQueue:  defaultHubQueueSize,
		heartbeat: defaultHeartbeat,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start runs the heartbeat until ctx is cancelled or Stop is called.
func (h *Hub) Start(ctx context.Context) {
	if h.heartbeat <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	go func() {
		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Publish(model.EventHeartbeat, map[string]int64{"timestamp": h.now().Unix()})
			}
		}
	}()
}

// Stop disconnects every subscriber. Later publishes are dropped.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return
	}
	if h.cancel != nil {
		h.cancel()
	}
	h.stopped = true
	for id, s := range h.clients {
		close(s.events)
		delete(h.clients, id)
	}
	h.metrics.setSubscribers(0)
	h.logger.Info("Live hub stopped")
}

// Subscribe registers a listener. Its channel already holds the connected
// event followed by any queued orders.
func (h *Hub) Subscribe() *Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := &Subscriber{
		ID:     uuid.New().String(),
		events: make(chan model.LiveEvent, h.buffer+len(h.queue)+1),
	}
	if h.stopped {
		close(s.events)
		return s
	}

	connected, _ := json.Marshal(map[string]string{
		"clientId":  s.ID,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
	s.events <- model.LiveEvent{Type: model.EventConnected, Data: connected}
	for _, ev := range h.queue {
		s.events <- ev
	}
	if n := len(h.queue); n > 0 {
		h.logger.Info("Flushed queued orders to new client", zap.String("client_id", s.ID), zap.Int("count", n))
	}
	h.queue = nil
	h.metrics.setQueued(0)

	h.clients[s.ID] = s
	h.metrics.setSubscribers(len(h.clients))
	h.logger.Info("Live client connected", zap.String("client_id", s.ID), zap.Int("total", len(h.clients)))
	return s
}

func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[s.ID]; !ok {
		return
	}
	delete(h.clients, s.ID)
	close(s.events)
	h.metrics.setSubscribers(len(h.clients))
	h.logger.Info("Live client disconnected", zap.String("client_id", s.ID), zap.Int("total", len(h.clients)))
}

// Publish sends payload as JSON to every subscriber without blocking. A full
// subscriber misses the event.
func (h *Hub) Publish(eventType model.EventType, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	ev := model.LiveEvent{Type: eventType, Data: data}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped {
		return nil
	}

	if len(h.clients) == 0 {
		if eventType == model.EventOrder {
			h.enqueue(ev)
		}
		return nil
	}

	for _, s := range h.clients {
		select {
		case s.events <- ev:
		default:
			h.logger.Warn("Client channel full, dropping message",
				zap.String("client_id", s.ID),
				zap.String("event", string(eventType)))
		}
	}
	return nil
}

func (h *Hub) enqueue(ev model.LiveEvent) {
	if len(h.queue) >= h.maxQueue {
		h.queue = h.queue[1:]
		h.logger.Warn("Live queue full, dropping oldest order")
	}
	h.queue = append(h.queue, ev)
	h.metrics.setQueued(len(h.queue))
	h.logger.Info("No clients connected, queuing order", zap.Int("queued", len(h.queue)))
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Queued() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}
