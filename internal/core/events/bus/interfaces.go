package bus

import "time"

// EventBus is a synchronous, in-process pub/sub bus for agent and tree
// lifecycle events.
//
//   - Type-based fan-out: handlers subscribe by Event.Type(); the Wildcard type
//     receives every event.
//   - Delivery happens in the publisher's goroutine, in subscription order.
//   - Handler errors are joined and returned from Publish.
//   - All methods are safe for concurrent use.
type EventBus interface {
	// Publish delivers the event to every active subscriber of its type.
	Publish(event Event) error
	// PublishBatch publishes events in order and joins their errors.
	PublishBatch(events ...Event) error
	// Subscribe registers a handler for an event type.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the subscription. A nil subscription is ignored.
	Unsubscribe(Subscription) error
	// Subscribers reports how many handlers listen to eventType, wildcard excluded.
	Subscribers(eventType string) int
}

// Wildcard subscribes to all event types.
const Wildcard = "*"

// Event is an immutable message transported by the EventBus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	EventHandler func(event Event) error
)

// Subscription is a registered handler. Cancel is idempotent.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	Cancel() error
}
