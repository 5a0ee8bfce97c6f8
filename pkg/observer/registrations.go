package observer

import (
	"github.com/manifold/taskcoach/pkg/misc/logging"
	"github.com/manifold/taskcoach/pkg/pubsub"
)

type registration struct {
	cb     Callback
	t      EventType
	source interface{}
}

// Registrations tracks the observers an owner has registered so that they
// can all be removed at once with RemoveInstance. Embed it in types that
// observe others.
type Registrations struct {
	owner interface{}
	pub   *Publisher
	bus   *pubsub.Bus

	entries []registration
}

// NewRegistrations returns registrations made on behalf of owner. A nil pub
// or bus means the process-wide default.
func NewRegistrations(owner interface{}, pub *Publisher, bus *pubsub.Bus) *Registrations {
	if bus == nil {
		bus = pubsub.Default()
	}
	return &Registrations{
		owner: owner,
		pub:   Or(pub),
		bus:   bus,
	}
}

func (r *Registrations) Publisher() *Publisher {
	return r.pub
}

func (r *Registrations) Bus() *pubsub.Bus {
	return r.bus
}

// RegisterObserver registers fn, identified by name, for events of type t
// from source (nil for any source).
func (r *Registrations) RegisterObserver(name string, fn func(*Event), t EventType, source interface{}) error {
	cb := Bind(r.owner, name, fn)
	if err := r.pub.Register(cb, t, source); err != nil {
		return err
	}
	r.entries = append(r.entries, registration{cb: cb, t: t, source: source})
	return nil
}

// RemoveObserver removes the observer called name, with the same wildcard
// rules as Publisher.Remove.
func (r *Registrations) RemoveObserver(name string, t EventType, source interface{}) {
	cb := Callback{Owner: r.owner, Name: name}
	r.pub.Remove(cb, t, source)
	kept := r.entries[:0]
	for _, reg := range r.entries {
		if reg.cb.Is(cb) && (t == "" || t == reg.t) && (source == nil || sameValue(source, reg.source)) {
			continue
		}
		kept = append(kept, reg)
	}
	r.entries = kept
}

// Subscribe subscribes fn to a topic on behalf of the owner.
func (r *Registrations) Subscribe(topic pubsub.Topic, fn func(pubsub.Message)) error {
	_, err := r.bus.Subscribe(r.owner, topic, fn)
	return err
}

// RemoveInstance removes every observer registered through r and every
// topic subscription held by the owner.
func (r *Registrations) RemoveInstance() {
	for _, reg := range r.entries {
		r.pub.Remove(reg.cb, "", nil)
	}
	r.entries = nil

	defer func() {
		if err := recover(); err != nil {
			logging.Debug(r.pub.log, "observer: unsubscribing", r.owner, "failed:", err)
		}
	}()
	r.bus.UnsubscribeOwner(r.owner)
}

// Observing reports how many registrations are tracked.
func (r *Registrations) Observing() int {
	return len(r.entries)
}
