// Package eventbus carries workflow events between the API and the worker.
package eventbus

import (
	"context"

	"github.com/hirelane/hirelane/pkg/events"
)

// Event is anything published on the bus; its type selects the handler on the consumer side.
type Event interface {
	GetType() events.EventType
}

// EventPublisher publishes events. Events sharing a key keep their relative order.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

// EventSubscriber routes decoded events to the handler registered for their type.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

// EventHandler receives a pointer to the concrete event. Returning an error nacks the message.
type EventHandler func(ctx context.Context, event any) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
