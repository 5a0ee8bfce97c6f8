package pubsub

import (
	"errors"
	"reflect"
	"sync"

	"github.com/manifold/taskcoach/pkg/misc/logging"
)

var (
	ErrInvalidTopic      = errors.New("pubsub: invalid topic")
	ErrNilHandler        = errors.New("pubsub: nil handler")
	ErrIncomparableOwner = errors.New("pubsub: subscription owner is not comparable")
)

// Message is what subscribers receive.
type Message struct {
	Topic Topic
	Value interface{}
}

// Subscription is a handle returned by Subscribe. Owner is whatever the
// subscriber passed in and is what UnsubscribeOwner matches on.
type Subscription struct {
	Owner   interface{}
	Pattern Topic

	id uint64
	fn func(Message)
}

func (s *Subscription) matches(t Topic) bool {
	if s.Pattern.IsWildcard() {
		return t.Matches(s.Pattern)
	}
	return t.HasPrefix(s.Pattern)
}

// Bus is a synchronous topic bus. A subscriber to "settings.view" also
// receives "settings.view.toolbar".
type Bus struct {
	Log logging.DebugLogger

	mu     sync.Mutex
	subs   []*Subscription
	nextID uint64
}

func New() *Bus {
	return &Bus{}
}

var (
	defaultBus  *Bus
	defaultOnce sync.Once
)

// Default returns the process-wide bus.
func Default() *Bus {
	defaultOnce.Do(func() {
		defaultBus = New()
	})
	return defaultBus
}

func (b *Bus) Subscribe(owner interface{}, pattern Topic, fn func(Message)) (*Subscription, error) {
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}
	if fn == nil {
		return nil, ErrNilHandler
	}
	if owner != nil && !reflect.ValueOf(owner).Comparable() {
		return nil, ErrIncomparableOwner
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription{
		Owner:   owner,
		Pattern: pattern,
		id:      b.nextID,
		fn:      fn,
	}
	b.subs = append(b.subs, sub)
	return sub, nil
}

// Publish delivers value to every matching subscriber in subscription order
// and returns how many were called. Handlers run without the bus lock held.
func (b *Bus) Publish(topic Topic, value interface{}) int {
	if !topic.IsValid() || topic.IsWildcard() {
		logging.Debug(b.Log, "pubsub: dropping publish to invalid topic", topic)
		return 0
	}
	var targets []*Subscription
	b.mu.Lock()
	for _, sub := range b.subs {
		if sub.matches(topic) {
			targets = append(targets, sub)
		}
	}
	b.mu.Unlock()

	msg := Message{Topic: topic, Value: value}
	for _, sub := range targets {
		sub.fn(msg)
	}
	return len(targets)
}

// Unsubscribe reports whether sub was still subscribed.
func (b *Bus) Unsubscribe(sub *Subscription) bool {
	if sub == nil {
		return false
	}
	return b.UnsubscribeAll(func(s *Subscription) bool {
		return s.id == sub.id
	}) > 0
}

// UnsubscribeOwner drops every subscription made on behalf of owner.
func (b *Bus) UnsubscribeOwner(owner interface{}) int {
	if owner == nil || !reflect.ValueOf(owner).Comparable() {
		return 0
	}
	return b.UnsubscribeAll(func(s *Subscription) bool {
		return s.Owner != nil && reflect.TypeOf(s.Owner) == reflect.TypeOf(owner) && s.Owner == owner
	})
}

// UnsubscribeAll removes the subscriptions filter accepts, or all of them
// when filter is nil.
func (b *Bus) UnsubscribeAll(filter func(*Subscription) bool) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.subs[:0]
	removed := 0
	for _, sub := range b.subs {
		if filter == nil || filter(sub) {
			removed++
			continue
		}
		kept = append(kept, sub)
	}
	for i := len(kept); i < len(b.subs); i++ {
		b.subs[i] = nil
	}
	b.subs = kept
	return removed
}

func (b *Bus) Subscriptions() []*Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := make([]*Subscription, len(b.subs))
	copy(subs, b.subs)
	return subs
}
