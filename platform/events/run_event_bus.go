package events

import (
	"sync"

	"spprovision/domain/events"
	"spprovision/logging"
)

// RunEventBus provides type-safe event publishing and subscription for provisioning run events
type RunEventBus struct {
	mu     sync.RWMutex
	wg     sync.WaitGroup
	logger *logging.Logger

	runCompletedHandlers []func(events.RunCompletedEvent)
	runFailedHandlers    []func(events.RunFailedEvent)
}

var _ events.RunEventPublisher = (*RunEventBus)(nil)

// NewRunEventBus creates a new typed run event bus
func NewRunEventBus() *RunEventBus {
	return &RunEventBus{
		logger:               logging.Default().WithComponent("run_event_bus"),
		runCompletedHandlers: make([]func(events.RunCompletedEvent), 0),
		runFailedHandlers:    make([]func(events.RunFailedEvent), 0),
	}
}

func (bus *RunEventBus) OnRunCompleted(handler func(events.RunCompletedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.runCompletedHandlers = append(bus.runCompletedHandlers, handler)
}

func (bus *RunEventBus) OnRunFailed(handler func(events.RunFailedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.runFailedHandlers = append(bus.runFailedHandlers, handler)
}

func (bus *RunEventBus) PublishRunCompleted(event events.RunCompletedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.RunCompletedEvent), len(bus.runCompletedHandlers))
	copy(handlers, bus.runCompletedHandlers)
	bus.mu.RUnlock()

	// Handlers run asynchronously so the publisher never blocks on them
	for _, handler := range handlers {
		bus.wg.Add(1)
		go func(h func(events.RunCompletedEvent)) {
			defer bus.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in RunCompleted",
						"run_id", runID(event.Run),
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

func (bus *RunEventBus) PublishRunFailed(event events.RunFailedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.RunFailedEvent), len(bus.runFailedHandlers))
	copy(handlers, bus.runFailedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		bus.wg.Add(1)
		go func(h func(events.RunFailedEvent)) {
			defer bus.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in RunFailed",
						"run_id", runID(event.Run),
						"error", event.Error,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

// Wait blocks until every handler started so far has returned.
// Short-lived processes call it before exiting so handler output is not lost.
func (bus *RunEventBus) Wait() {
	bus.wg.Wait()
}
