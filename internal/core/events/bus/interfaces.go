package bus

import "time"

// EventBus is an in-process, synchronous pub/sub bus keyed by event type.
//
// Handlers run on the publisher's goroutine in subscription order, so a
// simulation tick that publishes sees every handler finish before it moves
// on. Handler errors are joined and returned to the publisher. All methods
// are safe for concurrent use.
type EventBus interface {
	Publish(event Event) error
	PublishBatch(events ...Event) error

	// Subscribe registers handler for eventType. The Wildcard type receives
	// every event.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	Unsubscribe(Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	Metrics() Metrics
}

// Wildcard subscribes to every event type.
const Wildcard = "*"

// Event is an immutable message. At is simulation time, not wall time.
type Event struct {
	Type   string
	Source string
	At     time.Duration
	Data   any
}

func NewEvent(typ, source string, at time.Duration, data any) Event {
	return Event{Type: typ, Source: source, At: at, Data: data}
}

type EventHandler func(event Event) error

// Subscription is a registered handler. Cancel is idempotent.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	Cancel() error
}

// Observer is told about every delivery. Observers must return quickly.
type Observer interface {
	OnDelivered(event Event, handlers int, err error)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
