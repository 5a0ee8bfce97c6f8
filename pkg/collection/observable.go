package collection

import (
	"github.com/manifold/taskcoach/pkg/observer"
)

// Observable is a collection that announces additions and removals. The
// With variants take an enclosing event to join; pass nil to have the call
// send its own.
type Observable[T comparable] interface {
	Items() []T
	Len() int
	Contains(item T) bool

	Publisher() *observer.Publisher
	// Source is the value events of this collection are attributed to.
	Source() interface{}
	AddItemEventType() observer.EventType
	RemoveItemEventType() observer.EventType
	ModificationEventTypes() []observer.EventType

	AppendWith(ev *observer.Event, item T)
	ExtendWith(ev *observer.Event, items ...T)
	RemoveWith(ev *observer.Event, item T) error
	RemoveItemsWith(ev *observer.Event, items ...T) error
	ClearWith(ev *observer.Event)

	Detach()
}

// eventTypes names the events of one kind of collection, e.g. namespace
// "task.TaskList" gives "task.TaskList.add" and "task.TaskList.remove".
type eventTypes struct {
	pub       *observer.Publisher
	namespace string
	source    interface{}
}

func (e *eventTypes) Publisher() *observer.Publisher {
	return e.pub
}

func (e *eventTypes) Source() interface{} {
	return e.source
}

// Bind makes source the origin of this collection's events. Types that
// embed an observable collection bind themselves so observers can register
// for the outer value.
func (e *eventTypes) Bind(source interface{}) {
	e.source = source
}

func (e *eventTypes) Namespace() string {
	return e.namespace
}

func (e *eventTypes) AddItemEventType() observer.EventType {
	return observer.EventType(e.namespace + ".add")
}

func (e *eventTypes) RemoveItemEventType() observer.EventType {
	return observer.EventType(e.namespace + ".remove")
}

func (e *eventTypes) ModificationEventTypes() []observer.EventType {
	return []observer.EventType{e.AddItemEventType(), e.RemoveItemEventType()}
}

// Detach is a no-op for plain collections.
func (e *eventTypes) Detach() {}

// ValuesOf returns the values of (t, source) in ev that are Ts.
func ValuesOf[T any](ev *observer.Event, t observer.EventType, source interface{}) []T {
	var out []T
	for _, v := range ev.ValuesOf(t, source) {
		if item, ok := v.(T); ok {
			out = append(out, item)
		}
	}
	return out
}

func toValues[T any](items []T) []interface{} {
	values := make([]interface{}, len(items))
	for i, item := range items {
		values[i] = item
	}
	return values
}

// ObservableList is a List that sends "<namespace>.add" and
// "<namespace>.remove" events.
type ObservableList[T comparable] struct {
	eventTypes
	list List[T]
}

// NewObservableList returns an empty list. A nil pub means the default
// publisher.
func NewObservableList[T comparable](pub *observer.Publisher, namespace string, items ...T) *ObservableList[T] {
	l := &ObservableList[T]{
		eventTypes: eventTypes{pub: observer.Or(pub), namespace: namespace},
	}
	l.source = l
	l.list.Extend(items...)
	return l
}

func (l *ObservableList[T]) Items() []T           { return l.list.Items() }
func (l *ObservableList[T]) Len() int             { return l.list.Len() }
func (l *ObservableList[T]) At(i int) T           { return l.list.At(i) }
func (l *ObservableList[T]) Index(item T) int     { return l.list.Index(item) }
func (l *ObservableList[T]) Contains(item T) bool { return l.list.Contains(item) }

func (l *ObservableList[T]) EqualContents(items []T) bool {
	return l.list.EqualContents(items)
}

func (l *ObservableList[T]) Append(item T) { l.AppendWith(nil, item) }

func (l *ObservableList[T]) AppendWith(ev *observer.Event, item T) {
	l.ExtendWith(ev, item)
}

func (l *ObservableList[T]) Extend(items ...T) { l.ExtendWith(nil, items...) }

func (l *ObservableList[T]) ExtendWith(ev *observer.Event, items ...T) {
	if len(items) == 0 {
		return
	}
	ev, done := observer.Begin(l.pub, ev)
	defer done()
	l.list.Extend(items...)
	ev.AddSourceOfType(l.AddItemEventType(), l.source, toValues(items)...)
}

func (l *ObservableList[T]) Remove(item T) error { return l.RemoveWith(nil, item) }

func (l *ObservableList[T]) RemoveWith(ev *observer.Event, item T) error {
	ev, done := observer.Begin(l.pub, ev)
	defer done()
	if err := l.list.Remove(item); err != nil {
		return err
	}
	ev.AddSourceOfType(l.RemoveItemEventType(), l.source, item)
	return nil
}

func (l *ObservableList[T]) RemoveItems(items ...T) error { return l.RemoveItemsWith(nil, items...) }

// RemoveItemsWith removes the items that are present and reports them in
// one remove event. Absent items give ErrNotFound.
func (l *ObservableList[T]) RemoveItemsWith(ev *observer.Event, items ...T) error {
	if len(items) == 0 {
		return nil
	}
	ev, done := observer.Begin(l.pub, ev)
	defer done()
	var removed []T
	var err error
	for _, item := range items {
		if rerr := l.list.Remove(item); rerr != nil {
			err = rerr
			continue
		}
		removed = append(removed, item)
	}
	if len(removed) > 0 {
		ev.AddSourceOfType(l.RemoveItemEventType(), l.source, toValues(removed)...)
	}
	return err
}

func (l *ObservableList[T]) Clear() { l.ClearWith(nil) }

func (l *ObservableList[T]) ClearWith(ev *observer.Event) {
	items := l.list.Items()
	if len(items) == 0 {
		return
	}
	l.RemoveItemsWith(ev, items...)
}

// ObservableSet is a Set that sends "<namespace>.add" and
// "<namespace>.remove" events naming only the items whose membership
// changed.
type ObservableSet[T comparable] struct {
	eventTypes
	set Set[T]
}

func NewObservableSet[T comparable](pub *observer.Publisher, namespace string, items ...T) *ObservableSet[T] {
	s := &ObservableSet[T]{
		eventTypes: eventTypes{pub: observer.Or(pub), namespace: namespace},
	}
	s.source = s
	s.set.Extend(items...)
	return s
}

func (s *ObservableSet[T]) Items() []T           { return s.set.Items() }
func (s *ObservableSet[T]) Len() int             { return s.set.Len() }
func (s *ObservableSet[T]) Contains(item T) bool { return s.set.Contains(item) }

func (s *ObservableSet[T]) EqualContents(items []T) bool {
	return s.set.EqualContents(items)
}

func (s *ObservableSet[T]) Append(item T) { s.AppendWith(nil, item) }

func (s *ObservableSet[T]) AppendWith(ev *observer.Event, item T) {
	s.ExtendWith(ev, item)
}

func (s *ObservableSet[T]) Extend(items ...T) { s.ExtendWith(nil, items...) }

func (s *ObservableSet[T]) ExtendWith(ev *observer.Event, items ...T) {
	if len(items) == 0 {
		return
	}
	ev, done := observer.Begin(s.pub, ev)
	defer done()
	if added := s.set.Extend(items...); len(added) > 0 {
		ev.AddSourceOfType(s.AddItemEventType(), s.source, toValues(added)...)
	}
}

func (s *ObservableSet[T]) Remove(item T) error { return s.RemoveWith(nil, item) }

func (s *ObservableSet[T]) RemoveWith(ev *observer.Event, item T) error {
	ev, done := observer.Begin(s.pub, ev)
	defer done()
	if err := s.set.Remove(item); err != nil {
		return err
	}
	ev.AddSourceOfType(s.RemoveItemEventType(), s.source, item)
	return nil
}

func (s *ObservableSet[T]) RemoveItems(items ...T) error { return s.RemoveItemsWith(nil, items...) }

func (s *ObservableSet[T]) RemoveItemsWith(ev *observer.Event, items ...T) error {
	if len(items) == 0 {
		return nil
	}
	ev, done := observer.Begin(s.pub, ev)
	defer done()
	if removed := s.set.RemoveItems(items...); len(removed) > 0 {
		ev.AddSourceOfType(s.RemoveItemEventType(), s.source, toValues(removed)...)
	}
	return nil
}

func (s *ObservableSet[T]) Clear() { s.ClearWith(nil) }

func (s *ObservableSet[T]) ClearWith(ev *observer.Event) {
	items := s.set.Items()
	if len(items) == 0 {
		return
	}
	s.RemoveItemsWith(ev, items...)
}
