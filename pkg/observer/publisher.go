package observer

import (
	"sort"
	"sync"

	"github.com/manifold/taskcoach/pkg/misc/logging"
)

// Publisher keeps the registry of observers keyed by event type and event
// source, and dispatches events to them. A nil source in the registry
// means "this type, from any source".
type Publisher struct {
	log logging.DebugLogger

	mu        sync.Mutex
	observers map[Key][]Callback
	keys      []Key
	// order holds each registered callback once, by first registration
	order     []Callback
}

type Option func(*Publisher)

func WithLogger(log logging.DebugLogger) Option {
	return func(p *Publisher) {
		p.log = log
	}
}

func New(opts ...Option) *Publisher {
	p := &Publisher{
		observers: make(map[Key][]Callback),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var (
	defaultPublisher *Publisher
	defaultOnce      sync.Once
)

// Default returns the process-wide publisher. Components that are given a
// nil *Publisher use it.
func Default() *Publisher {
	defaultOnce.Do(func() {
		defaultPublisher = New()
	})
	return defaultPublisher
}

// Or returns p, or the default publisher if p is nil.
func Or(p *Publisher) *Publisher {
	if p == nil {
		return Default()
	}
	return p
}

// Register adds cb for events of type t from source. A nil source
// registers cb for every source of t. Registering twice is a no-op.
func (p *Publisher) Register(cb Callback, t EventType, source interface{}) error {
	if err := cb.validate(); err != nil {
		return err
	}
	if source != nil && !hashable(source) {
		return ErrIncomparableSource
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	k := Key{Type: t, Source: source}
	cbs, ok := p.observers[k]
	if !ok {
		p.keys = append(p.keys, k)
	}
	for _, existing := range cbs {
		if existing.Is(cb) {
			return nil
		}
	}
	p.observers[k] = append(cbs, cb)
	if !containsCallback(p.order, cb) {
		p.order = append(p.order, cb)
	}
	return nil
}

// Remove unregisters cb. An empty t matches every type and a nil source
// matches every registered source, so Remove(cb, "", nil) drops cb
// everywhere.
func (p *Publisher) Remove(cb Callback, t EventType, source interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := p.keys[:0]
	for _, k := range p.keys {
		if (t == "" || t == k.Type) && (source == nil || sameValue(source, k.Source)) {
			remaining := without(p.observers[k], cb)
			if len(remaining) == 0 {
				delete(p.observers, k)
				continue
			}
			p.observers[k] = remaining
		}
		keys = append(keys, k)
	}
	for i := len(keys); i < len(p.keys); i++ {
		p.keys[i] = Key{}
	}
	p.keys = keys

	var order []Callback
	for _, existing := range p.order {
		if p.registered(existing) {
			order = append(order, existing)
		}
	}
	p.order = order
}

// Registered reports whether cb is registered for anything.
func (p *Publisher) Registered(cb Callback) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registered(cb)
}

func (p *Publisher) registered(cb Callback) bool {
	for _, cbs := range p.observers {
		for _, existing := range cbs {
			if existing.Is(cb) {
				return true
			}
		}
	}
	return false
}

// Observers returns the callbacks registered for t from any source, or
// every registered callback when t is empty.
func (p *Publisher) Observers(t EventType) []Callback {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t != "" {
		cbs := p.observers[Key{Type: t}]
		out := make([]Callback, len(cbs))
		copy(out, cbs)
		return out
	}
	out := make([]Callback, len(p.order))
	copy(out, p.order)
	return out
}

// Clear empties the registry.
func (p *Publisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = make(map[Key][]Callback)
	p.keys = nil
	p.order = nil
}

type match struct {
	cb   Callback
	rank int
	keys []Key
}

// Notify calls every observer interested in e with the part of e it
// registered for. Each observer is called at most once, in the order the
// observers first registered. Callbacks run without the registry lock held.
func (p *Publisher) Notify(e *Event) {
	if e == nil || len(e.Sources()) == 0 {
		return
	}

	var matches []*match
	p.mu.Lock()
	for _, t := range e.Types() {
		sources := append(e.Sources(t), nil)
		for _, source := range sources {
			k := Key{Type: t, Source: source}
			if source != nil && !hashable(source) {
				continue
			}
			for _, cb := range p.observers[k] {
				m := findMatch(matches, cb)
				if m == nil {
					m = &match{cb: cb, rank: indexOf(p.order, cb)}
					matches = append(matches, m)
				}
				m.keys = append(m.keys, k)
			}
		}
	}
	p.mu.Unlock()

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].rank < matches[j].rank
	})
	for _, m := range matches {
		sub := e.SubEvent(m.keys...)
		if sub.IsEmpty() {
			continue
		}
		m.cb.Func(sub)
	}
}

func (p *Publisher) debug(args ...interface{}) {
	logging.Debug(p.log, args...)
}

func findMatch(matches []*match, cb Callback) *match {
	for _, m := range matches {
		if m.cb.Is(cb) {
			return m
		}
	}
	return nil
}

func without(cbs []Callback, cb Callback) []Callback {
	var out []Callback
	for _, existing := range cbs {
		if !existing.Is(cb) {
			out = append(out, existing)
		}
	}
	return out
}

func containsCallback(cbs []Callback, cb Callback) bool {
	return indexOf(cbs, cb) >= 0
}

func indexOf(cbs []Callback, cb Callback) int {
	for i, existing := range cbs {
		if existing.Is(cb) {
			return i
		}
	}
	return -1
}
