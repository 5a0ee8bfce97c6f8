package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventAccumulates(t *testing.T) {
	e := NewEvent("x.add", "src", "a")
	e.AddSourceOfType("x.add", "src", "a", "b")
	e.AddSourceOfType("x.remove", "other", 1)

	assert.Equal(t, EventType("x.add"), e.Type())
	assert.Equal(t, []EventType{"x.add", "x.remove"}, e.Types())
	assert.Equal(t, []interface{}{"src", "other"}, e.Sources())
	assert.Equal(t, []interface{}{"other"}, e.Sources("x.remove"))
	assert.Equal(t, []interface{}{"a", "b"}, e.ValuesOf("x.add", "src"))
	assert.Equal(t, 1, e.ValueOf("x.remove", nil))
}

func TestEventDefaults(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		e := &Event{}
		assert.True(t, e.IsEmpty())
		assert.Equal(t, EventType(""), e.Type())
		assert.Nil(t, e.Value())
		assert.Empty(t, e.Sources())
		assert.Equal(t, e, NewEvent("", nil))
	})

	t.Run("single value", func(t *testing.T) {
		e := NewEvent("x.add", "src", "foo")
		assert.Equal(t, "foo", e.Value())
		assert.Equal(t, []interface{}{"foo"}, e.Values())
	})

	t.Run("lookup errors", func(t *testing.T) {
		e := NewEvent("x.add", "src", "foo")
		_, err := e.Lookup("nope", nil)
		assert.ErrorIs(t, err, ErrUnknownType)
		_, err = e.Lookup("x.add", "other")
		assert.ErrorIs(t, err, ErrUnknownSource)
		assert.Nil(t, e.ValuesOf("x.add", "other"))
	})

	t.Run("incomparable values", func(t *testing.T) {
		e := NewEvent("x.add", "src", []int{1})
		e.AddSource("src", []int{1}, []int{2})
		assert.Len(t, e.Values(), 2)
	})
}

func TestEventAddSource(t *testing.T) {
	t.Run("single type", func(t *testing.T) {
		e := NewEvent("x.add", "a")
		e.AddSource("b", 1)
		assert.Equal(t, []interface{}{"a", "b"}, e.Sources())
	})

	t.Run("ambiguous", func(t *testing.T) {
		e := NewEvent("x.add", "a")
		e.AddSourceOfType("x.remove", "a")
		assert.PanicsWithError(t, "observer: event type is ambiguous, pass it explicitly: event has 2 types", func() {
			e.AddSource("b")
		})
	})

	t.Run("no type", func(t *testing.T) {
		assert.Panics(t, func() {
			(&Event{}).AddSource("b")
		})
	})
}

func TestSubEvent(t *testing.T) {
	e := NewEvent("t1", "s1", 1)
	e.AddSourceOfType("t1", "s2", 2)
	e.AddSourceOfType("t2", "s1", 3)

	t.Run("one pair", func(t *testing.T) {
		sub := e.SubEvent(Key{"t1", "s2"})
		assert.True(t, sub.Equal(NewEvent("t1", "s2", 2)))
	})

	t.Run("all sources of a type", func(t *testing.T) {
		sub := e.SubEvent(Key{Type: "t1"})
		expected := NewEvent("t1", "s1", 1)
		expected.AddSourceOfType("t1", "s2", 2)
		assert.True(t, sub.Equal(expected))
	})

	t.Run("absent pairs", func(t *testing.T) {
		assert.True(t, e.SubEvent(Key{"t2", "s2"}, Key{Type: "t3"}).IsEmpty())
	})
}

func TestEventEqual(t *testing.T) {
	a := NewEvent("t", "s", 1, 2)
	b := NewEvent("t", "s", 2, 1)
	assert.True(t, a.Equal(b))
	b.AddSourceOfType("t", "s2")
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
	assert.Contains(t, a.String(), "t: {s: [1 2]}")
}

func TestEventSendIsNotReentrant(t *testing.T) {
	p := New()
	e := NewEvent("t", "s", 1)
	calls := 0
	owner := &struct{ int }{}
	require.NoError(t, p.Register(Bind(owner, "onT", func(*Event) {
		calls++
		e.Send(p)
	}), "t", nil))

	e.Send(p)
	assert.Equal(t, 1, calls)

	e.Send(p)
	assert.Equal(t, 2, calls)
}
