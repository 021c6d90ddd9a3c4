package dispatcher

import "github.com/asaskevich/EventBus"

// Topics emitted across the application
const (
	BeforeRequest         = "skinsystem:before_request"
	AfterRequest          = "skinsystem:after_request"
	AuthenticationSuccess = "authentication:success"
	AuthenticationError   = "authentication:error"
	AppearancePersisted   = "appearances:persisted"
	AppearanceRemoved     = "appearances:removed"
	AppearanceRejected    = "appearances:rejected"
)

type Subscriber interface {
	Subscribe(topic string, fn interface{})
}

type Emitter interface {
	Emit(topic string, args ...interface{})
}

type Dispatcher interface {
	Subscriber
	Emitter
}

type localEventDispatcher struct {
	bus EventBus.Bus
}

func (d *localEventDispatcher) Subscribe(topic string, fn interface{}) {
	_ = d.bus.Subscribe(topic, fn)
}

func (d *localEventDispatcher) Emit(topic string, args ...interface{}) {
	d.bus.Publish(topic, args...)
}

func New() Dispatcher {
	return &localEventDispatcher{
		bus: EventBus.New(),
	}
}
