// Package events carries document change notifications over Redis pub/sub.
// Every API instance publishes after a committed write and fans incoming
// messages out to its own live subscribers.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"awdtrack/internal/model"
)

// Channel is the Redis channel document events are published on.
const Channel = "awd:documents"

// Event types.
const (
	TypeCreated = "document.created"
	TypeUpdated = "document.updated"
	TypePurged  = "document.purged"
)

// Publisher announces document changes.
type Publisher interface {
	Publish(ctx context.Context, ev model.DocumentEvent) error
}

// RedisPublisher is the subset of the go-redis client used to publish.
type RedisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type redisPublisher struct {
	client RedisPublisher
}

// NewPublisher returns a Publisher writing JSON events to Channel.
func NewPublisher(client RedisPublisher) Publisher {
	return &redisPublisher{client: client}
}

func (p *redisPublisher) Publish(ctx context.Context, ev model.DocumentEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.client.Publish(ctx, Channel, b).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// Nop discards events. It is used when no change feed is configured.
type Nop struct{}

func (Nop) Publish(context.Context, model.DocumentEvent) error { return nil }
