package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"awdtrack/internal/model"
)

const subscriberBuffer = 16

// Source delivers raw pub/sub messages. *redis.PubSub satisfies it.
type Source interface {
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

// Subscriber hands out scoped subscriptions to the change feed.
type Subscriber interface {
	Subscribe() *Subscription
}

// Hub fans one Redis subscription out to any number of local subscribers.
type Hub struct {
	log zerolog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]*Subscription
}

// NewHub returns an empty hub. Call Run to start delivering.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:  log.With().Str("component", "events").Logger(),
		subs: make(map[int]*Subscription),
	}
}

var _ Subscriber = (*Hub)(nil)

// Run reads src until ctx is done or src closes, then closes src and every
// open subscription.
func (h *Hub) Run(ctx context.Context, src Source) {
	defer func() {
		if err := src.Close(); err != nil {
			h.log.Warn().Err(err).Msg("close pubsub")
		}
		h.closeAll()
	}()

	msgs := src.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var ev model.DocumentEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				h.log.Warn().Err(err).Str("channel", msg.Channel).Msg("drop malformed event")
				continue
			}
			h.Broadcast(ev)
		}
	}
}

// Broadcast delivers ev to every open subscription. A subscriber whose
// buffer is full misses the event instead of stalling the others.
func (h *Hub) Broadcast(ev model.DocumentEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.subs {
		select {
		case s.ch <- ev:
		default:
			h.log.Debug().Int("subscriber", id).Str("type", ev.Type).Msg("subscriber lagging, event dropped")
		}
	}
}

// Subscribe registers a new subscription. The caller must Close it.
func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	s := &Subscription{
		id:  h.nextID,
		hub: h,
		ch:  make(chan model.DocumentEvent, subscriberBuffer),
	}
	h.subs[s.id] = s
	return s
}

// Len reports the number of open subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) remove(id int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.subs[id]
	if !ok {
		return false
	}
	delete(h.subs, id)
	close(s.ch)
	return true
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.subs {
		delete(h.subs, id)
		close(s.ch)
	}
}

// Subscription is one listener's view of the change feed. After Close no
// further events are delivered and Events is closed.
type Subscription struct {
	id   int
	hub  *Hub
	ch   chan model.DocumentEvent
	once sync.Once
}

// Events returns the delivery channel.
func (s *Subscription) Events() <-chan model.DocumentEvent {
	return s.ch
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.remove(s.id) })
}
