package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"awdtrack/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRedis struct {
	mock.Mock
}

func (m *mockRedis) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	args := m.Called(ctx, channel, message)
	return redis.NewIntResult(1, args.Error(0))
}

type fakeSource struct {
	ch     chan *redis.Message
	closed bool
}

func (f *fakeSource) Channel(...redis.ChannelOption) <-chan *redis.Message { return f.ch }
func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

func sampleEvent() model.DocumentEvent {
	return model.DocumentEvent{
		Type:               TypeUpdated,
		DocumentID:         "doc-1",
		AWDReferenceNumber: "AWD-2025-0001",
		Status:             model.StatusClosed,
		ForwardedTo:        model.RoleAdmin,
		Actor:              model.RoleAdmin,
		At:                 time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes json", func(t *testing.T) {
		r := new(mockRedis)
		r.On("Publish", ctx, Channel, mock.MatchedBy(func(b []byte) bool {
			var ev model.DocumentEvent
			return json.Unmarshal(b, &ev) == nil && ev.AWDReferenceNumber == "AWD-2025-0001"
		})).Return(nil)

		assert.NoError(t, NewPublisher(r).Publish(ctx, sampleEvent()))
		r.AssertExpectations(t)
	})

	t.Run("redis error", func(t *testing.T) {
		r := new(mockRedis)
		r.On("Publish", ctx, Channel, mock.Anything).Return(errors.New("connection refused"))

		err := NewPublisher(r).Publish(ctx, sampleEvent())
		assert.ErrorContains(t, err, "publish document.updated: connection refused")
	})

	t.Run("nop", func(t *testing.T) {
		assert.NoError(t, Nop{}.Publish(ctx, sampleEvent()))
	})
}

func TestHub_DeliversToSubscribers(t *testing.T) {
	h := NewHub(zerolog.Nop())
	a := h.Subscribe()
	b := h.Subscribe()
	defer a.Close()
	defer b.Close()

	h.Broadcast(sampleEvent())

	assert.Equal(t, "doc-1", (<-a.Events()).DocumentID)
	assert.Equal(t, "doc-1", (<-b.Events()).DocumentID)
}

func TestHub_ClosedSubscriptionGetsNothing(t *testing.T) {
	h := NewHub(zerolog.Nop())
	s := h.Subscribe()
	require.Equal(t, 1, h.Len())

	s.Close()
	s.Close()
	assert.Equal(t, 0, h.Len())

	h.Broadcast(sampleEvent())
	_, ok := <-s.Events()
	assert.False(t, ok)
}

func TestHub_LaggingSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(zerolog.Nop())
	slow := h.Subscribe()
	defer slow.Close()

	for i := 0; i < subscriberBuffer+5; i++ {
		h.Broadcast(sampleEvent())
	}
	assert.Len(t, slow.Events(), subscriberBuffer)
}

func TestHub_Run(t *testing.T) {
	h := NewHub(zerolog.Nop())
	src := &fakeSource{ch: make(chan *redis.Message, 2)}
	s := h.Subscribe()

	payload, err := json.Marshal(sampleEvent())
	require.NoError(t, err)
	src.ch <- &redis.Message{Channel: Channel, Payload: "not json"}
	src.ch <- &redis.Message{Channel: Channel, Payload: string(payload)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx, src)
		close(done)
	}()

	select {
	case ev := <-s.Events():
		assert.Equal(t, model.StatusClosed, ev.Status)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	<-done
	assert.True(t, src.closed)
	assert.Equal(t, 0, h.Len())
	_, ok := <-s.Events()
	assert.False(t, ok)
}
