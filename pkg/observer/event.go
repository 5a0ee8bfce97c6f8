package observer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// EventType names a kind of change, e.g. "task.TaskList.add".
type EventType string

// Key is one (type, source) pair of an event. A nil Source means every
// source of Type.
type Key struct {
	Type   EventType
	Source interface{}
}

var (
	ErrUnknownType   = errors.New("observer: event has no such type")
	ErrUnknownSource = errors.New("observer: event has no such source")
	ErrAmbiguousType = errors.New("observer: event type is ambiguous, pass it explicitly")
)

type sourceValues struct {
	source interface{}
	values []interface{}
}

// Event accumulates the values that changed per event type and per event
// source. The zero value is an empty event ready to use. Sources must be
// comparable; values are de-duplicated.
type Event struct {
	types   []EventType
	entries map[EventType][]*sourceValues

	sending bool
}

// NewEvent returns an event seeded with values for (t, source). An empty t
// gives an empty event.
func NewEvent(t EventType, source interface{}, values ...interface{}) *Event {
	e := &Event{}
	if t != "" {
		e.AddSourceOfType(t, source, values...)
	}
	return e
}

// AddSourceOfType adds values to the (t, source) entry, merging with what
// is already there.
func (e *Event) AddSourceOfType(t EventType, source interface{}, values ...interface{}) {
	if e.entries == nil {
		e.entries = make(map[EventType][]*sourceValues)
	}
	entries, ok := e.entries[t]
	if !ok {
		e.types = append(e.types, t)
	}
	sv := findSource(entries, source)
	if sv == nil {
		sv = &sourceValues{source: source}
		e.entries[t] = append(entries, sv)
	}
	for _, v := range values {
		if !containsValue(sv.values, v) {
			sv.values = append(sv.values, v)
		}
	}
}

// AddSource adds values for source under the event's only type. It panics
// with ErrAmbiguousType when the event has zero or several types.
func (e *Event) AddSource(source interface{}, values ...interface{}) {
	if len(e.types) != 1 {
		panic(fmt.Errorf("%w: event has %d types", ErrAmbiguousType, len(e.types)))
	}
	e.AddSourceOfType(e.types[0], source, values...)
}

// Type returns the first type added, or "" for an empty event.
func (e *Event) Type() EventType {
	if len(e.types) == 0 {
		return ""
	}
	return e.types[0]
}

func (e *Event) Types() []EventType {
	types := make([]EventType, len(e.types))
	copy(types, e.types)
	return types
}

func (e *Event) IsEmpty() bool {
	return len(e.types) == 0
}

// Sources returns the sources of the given types, or of all types when none
// are given, in the order they were added.
func (e *Event) Sources(types ...EventType) []interface{} {
	if len(types) == 0 {
		types = e.types
	}
	var sources []interface{}
	for _, t := range types {
		for _, sv := range e.entries[t] {
			if !containsValue(sources, sv.source) {
				sources = append(sources, sv.source)
			}
		}
	}
	return sources
}

// Lookup returns the values for (t, source). An empty t means the event's
// first type and a nil source means the type's first source.
func (e *Event) Lookup(t EventType, source interface{}) ([]interface{}, error) {
	if t == "" {
		t = e.Type()
	}
	entries, ok := e.entries[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	if source == nil {
		if len(entries) == 0 {
			return nil, ErrUnknownSource
		}
		return copyValues(entries[0].values), nil
	}
	sv := findSource(entries, source)
	if sv == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSource, source)
	}
	return copyValues(sv.values), nil
}

// ValuesOf is Lookup without the error; unknown entries give nil.
func (e *Event) ValuesOf(t EventType, source interface{}) []interface{} {
	values, _ := e.Lookup(t, source)
	return values
}

// ValueOf returns the first value of (t, source), or nil.
func (e *Event) ValueOf(t EventType, source interface{}) interface{} {
	values := e.ValuesOf(t, source)
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// Values is for callers sure there is one type and one source.
func (e *Event) Values() []interface{} {
	return e.ValuesOf("", nil)
}

// Value is for callers sure there is one type, one source and one value.
func (e *Event) Value() interface{} {
	return e.ValueOf("", nil)
}

// SubEvent returns a new event holding only the requested (type, source)
// pairs that are present in e.
func (e *Event) SubEvent(keys ...Key) *Event {
	sub := &Event{}
	for _, k := range keys {
		for _, sv := range e.entries[k.Type] {
			if k.Source != nil && !sameValue(k.Source, sv.source) {
				continue
			}
			sub.AddSourceOfType(k.Type, sv.source, sv.values...)
		}
	}
	return sub
}

// Send delivers the event through p, or the default publisher when p is
// nil. Sending an event from within its own delivery does nothing.
func (e *Event) Send(p *Publisher) {
	if p == nil {
		p = Default()
	}
	if e.sending {
		p.debug("observer: dropping re-entrant send of", e)
		return
	}
	e.sending = true
	defer func() { e.sending = false }()
	p.Notify(e)
}

// Equal compares types, sources and values regardless of order.
func (e *Event) Equal(other *Event) bool {
	if e == nil || other == nil {
		return e == other
	}
	if len(e.types) != len(other.types) {
		return false
	}
	for _, t := range e.types {
		mine, theirs := e.entries[t], other.entries[t]
		if len(mine) != len(theirs) {
			return false
		}
		for _, sv := range mine {
			osv := findSource(theirs, sv.source)
			if osv == nil || len(osv.values) != len(sv.values) {
				return false
			}
			for _, v := range sv.values {
				if !containsValue(osv.values, v) {
					return false
				}
			}
		}
	}
	return true
}

func (e *Event) String() string {
	var b strings.Builder
	b.WriteString("Event(")
	for i, t := range e.types {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: {", t)
		for j, sv := range e.entries[t] {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%v: %v", sv.source, sv.values)
		}
		b.WriteString("}")
	}
	b.WriteString(")")
	return b.String()
}

func findSource(entries []*sourceValues, source interface{}) *sourceValues {
	for _, sv := range entries {
		if sameValue(sv.source, source) {
			return sv
		}
	}
	return nil
}

func containsValue(values []interface{}, v interface{}) bool {
	for _, existing := range values {
		if sameValue(existing, v) {
			return true
		}
	}
	return false
}

// sameValue is == for comparable values and deep equality otherwise, so
// slices or maps as event values never panic.
func sameValue(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if hashable(a) && hashable(b) {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// hashable reports whether v can be compared with == and used as a map
// key. It looks at the dynamic value, so a struct holding a slice in an
// interface field is not hashable.
func hashable(v interface{}) bool {
	return v == nil || reflect.ValueOf(v).Comparable()
}

func copyValues(values []interface{}) []interface{} {
	out := make([]interface{}, len(values))
	copy(out, values)
	return out
}
