package event

import (
	"context"
	"sync"
	"time"

	"github.com/mise/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultBufferSize     = 256
	defaultHandlerTimeout = 10 * time.Second
)

// InMemoryEventBus implements shared.EventBus with in-process pub/sub.
// Events published while the bus is running are dispatched asynchronously
// from a buffered queue; before Start (and after Stop) dispatch is
// synchronous, which keeps startup wiring and tests deterministic.
type InMemoryEventBus struct {
	mu             sync.RWMutex
	handlers       map[string][]shared.EventHandler
	wildcard       []shared.EventHandler
	stateMu        sync.RWMutex
	queue          chan shared.DomainEvent
	running        bool
	bufferSize     int
	handlerTimeout time.Duration
	logger         *zap.Logger
	wg             sync.WaitGroup
}

// Option configures the event bus
type Option func(*InMemoryEventBus)

// WithBufferSize sets the async queue capacity
func WithBufferSize(size int) Option {
	return func(b *InMemoryEventBus) {
		if size > 0 {
			b.bufferSize = size
		}
	}
}

// WithHandlerTimeout bounds how long a single handler may run
func WithHandlerTimeout(timeout time.Duration) Option {
	return func(b *InMemoryEventBus) {
		if timeout > 0 {
			b.handlerTimeout = timeout
		}
	}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...Option) *InMemoryEventBus {
	b := &InMemoryEventBus{
		handlers:       make(map[string][]shared.EventHandler),
		bufferSize:     defaultBufferSize,
		handlerTimeout: defaultHandlerTimeout,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers events to all subscribed handlers. When the bus is
// running the events are queued; a full queue falls back to synchronous
// dispatch so no event is ever dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		if b.enqueue(evt) {
			continue
		}
		b.dispatch(ctx, evt)
	}
	return nil
}

// enqueue queues an event for the async worker. The running check and the
// send happen under the state lock, so Stop cannot close the queue between
// the two.
func (b *InMemoryEventBus) enqueue(evt shared.DomainEvent) bool {
	b.stateMu.RLock()
	defer b.stateMu.RUnlock()

	if !b.running {
		return false
	}
	select {
	case b.queue <- evt:
		return true
	default:
		b.logger.Warn("event queue full, dispatching synchronously",
			zap.String("event_type", evt.EventType()),
		)
		return false
	}
}

// Subscribe registers a handler. With no explicit event types the
// handler's own EventTypes() is used; an empty result subscribes it to
// every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
	} else {
		for _, eventType := range eventTypes {
			b.handlers[eventType] = append(b.handlers[eventType], handler)
		}
	}

	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every subscription
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.wildcard = removeHandler(b.wildcard, handler)
	for eventType, handlers := range b.handlers {
		b.handlers[eventType] = removeHandler(handlers, handler)
		if len(b.handlers[eventType]) == 0 {
			delete(b.handlers, eventType)
		}
	}
}

// Start launches the async dispatch worker
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()

	if b.running {
		return nil
	}
	b.running = true
	b.queue = make(chan shared.DomainEvent, b.bufferSize)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for evt := range b.queue {
			b.dispatch(context.Background(), evt)
		}
	}()

	b.logger.Info("event bus started", zap.Int("buffer_size", b.bufferSize))
	return nil
}

// Stop drains the queue and waits for in-flight handlers
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.stateMu.Lock()
	if !b.running {
		b.stateMu.Unlock()
		return nil
	}
	b.running = false
	close(b.queue)
	b.stateMu.Unlock()

	b.wg.Wait()
	b.logger.Info("event bus stopped")
	return nil
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, evt shared.DomainEvent) {
	b.mu.RLock()
	handlers := make([]shared.EventHandler, 0, len(b.handlers[evt.EventType()])+len(b.wildcard))
	handlers = append(handlers, b.handlers[evt.EventType()]...)
	handlers = append(handlers, b.wildcard...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := b.invoke(ctx, handler, evt); err != nil {
			// one failing handler must not starve the others
			b.logger.Error("handler failed to process event",
				zap.String("event_type", evt.EventType()),
				zap.String("event_id", evt.EventID().String()),
				zap.Error(err),
			)
		}
	}
}

func (b *InMemoryEventBus) invoke(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	ctx, cancel := context.WithTimeout(ctx, b.handlerTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", evt.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, evt)
}

func removeHandler(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	result := make([]shared.EventHandler, 0, len(handlers))
	for _, h := range handlers {
		if h != target {
			result = append(result, h)
		}
	}
	return result
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
