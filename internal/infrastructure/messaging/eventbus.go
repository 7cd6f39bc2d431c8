// Package messaging implements the in-memory event bus that connects
// message processing to its side effects (announcements, history).
// Single-process by design: the bot runs as one instance.
package messaging

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
	"github.com/aura-hub/aura-levels-bot/pkg/logger"
)

// ErrEventBusClosed is returned when publishing or subscribing on a
// closed bus.
var ErrEventBusClosed = errors.New("messaging: event bus is closed")

// InMemoryEventBus dispatches events to subscribed handlers.
// Dispatch is asynchronous so a slow side effect (a Telegram send) never
// blocks message processing; a bounded worker pool caps concurrency.
// Handler panics are recovered and logged.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[shared.EventType][]shared.EventHandler
	workers  chan struct{}
	log      *logger.Logger
	closed   bool
	wg       sync.WaitGroup
}

// InMemoryEventBusConfig contains configuration for InMemoryEventBus.
type InMemoryEventBusConfig struct {
	// WorkerPoolSize is the number of concurrent handler invocations.
	// Default: 8.
	WorkerPoolSize int

	// Logger for structured logging.
	Logger *logger.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus(cfg InMemoryEventBusConfig) *InMemoryEventBus {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 8
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	return &InMemoryEventBus{
		handlers: make(map[shared.EventType][]shared.EventHandler),
		workers:  make(chan struct{}, cfg.WorkerPoolSize),
		log:      cfg.Logger,
	}
}

// Subscribe registers a handler for a specific event type.
func (b *InMemoryEventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) error {
	if handler == nil {
		return errors.New("messaging: handler cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrEventBusClosed
	}

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Publish delivers the event to all handlers subscribed to its type.
// Returns once the handlers are scheduled, not once they complete.
func (b *InMemoryEventBus) Publish(event shared.Event) error {
	if event == nil {
		return errors.New("messaging: event cannot be nil")
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}
	handlers := make([]shared.EventHandler, len(b.handlers[event.EventType()]))
	copy(handlers, b.handlers[event.EventType()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.wg.Add(1)
		b.workers <- struct{}{}
		go func(h shared.EventHandler) {
			defer b.wg.Done()
			defer func() { <-b.workers }()
			b.invoke(h, event)
		}(handler)
	}

	return nil
}

// Close stops accepting events and waits for in-flight handlers.
func (b *InMemoryEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.wg.Wait()
}

// invoke runs one handler with panic recovery.
func (b *InMemoryEventBus) invoke(handler shared.EventHandler, event shared.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				logger.String("event_type", string(event.EventType())),
				logger.String("event_id", event.EventID()),
				logger.Err(fmt.Errorf("%v", r)))
		}
	}()

	if err := handler(event); err != nil {
		b.log.Warn("event handler failed",
			logger.String("event_type", string(event.EventType())),
			logger.String("event_id", event.EventID()),
			logger.Err(err))
	}
}
