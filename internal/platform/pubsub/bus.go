package pubsub

import (
	"context"
	"sync"

	"github.com/matchpulse/fixture-sync/internal/platform/logging"
)

// Event is a topic-scoped change notification published by the pipeline.
type Event struct {
	Topic   string
	Payload any
}

type Handler func(ctx context.Context, evt Event)

// Bus fans events out to subscribers without blocking publishers.
// Handlers run on their own goroutine; slow subscribers never stall
// the ingestion path.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	closed   bool
	wg       sync.WaitGroup
	logger   *logging.Logger
}

func NewBus(logger *logging.Logger) *Bus {
	if logger == nil {
		logger = logging.Default()
	}
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

func (b *Bus) Subscribe(topic string, handler Handler) {
	if topic == "" || handler == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.handlers[topic] = append(b.handlers[topic], handler)
}

func (b *Bus) Publish(ctx context.Context, evt Event) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	subscribers := b.handlers[evt.Topic]
	b.mu.RUnlock()

	for _, handler := range subscribers {
		handler := handler
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.ErrorContext(ctx, "pubsub handler panicked", "topic", evt.Topic, "panic", r)
				}
			}()
			handler(ctx, evt)
		}()
	}
}

// Close waits for in-flight handlers and drops future publishes.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.wg.Wait()
}
