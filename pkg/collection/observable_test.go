package collection

import (
	"testing"

	"github.com/manifold/taskcoach/pkg/observer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventLog struct {
	events []*observer.Event
}

func (l *eventLog) HandleEvent(e *observer.Event) {
	l.events = append(l.events, e)
}

func observe(t *testing.T, pub *observer.Publisher, coll Observable[string]) *eventLog {
	t.Helper()
	log := &eventLog{}
	for _, et := range coll.ModificationEventTypes() {
		require.NoError(t, pub.Register(observer.HandlerCallback(log), et, coll.Source()))
	}
	return log
}

func TestObservableEventTypes(t *testing.T) {
	l := NewObservableList[string](observer.New(), "x")
	assert.Equal(t, observer.EventType("x.add"), l.AddItemEventType())
	assert.Equal(t, observer.EventType("x.remove"), l.RemoveItemEventType())
	assert.Equal(t, []observer.EventType{"x.add", "x.remove"}, l.ModificationEventTypes())
	assert.Equal(t, "x", l.Namespace())
	assert.Same(t, l, l.Source())
}

func TestObservableNoOpsAreSilent(t *testing.T) {
	pub := observer.New()
	colls := map[string]Observable[string]{
		"list": NewObservableList[string](pub, "list"),
		"set":  NewObservableSet[string](pub, "set"),
	}
	for name, coll := range colls {
		t.Run(name, func(t *testing.T) {
			log := observe(t, pub, coll)
			coll.ExtendWith(nil)
			require.NoError(t, coll.RemoveItemsWith(nil))
			coll.ClearWith(nil)
			assert.Empty(t, log.events)
		})
	}
}

func TestObservableListAppendValue(t *testing.T) {
	pub := observer.New()
	l := NewObservableList[string](pub, "x")
	var value interface{}
	require.NoError(t, pub.Register(observer.Bind(t, "onAdd", func(e *observer.Event) {
		value = e.Value()
	}), "x.add", nil))

	l.Append("foo")
	assert.Equal(t, "foo", value)
}

func TestObservableListRoundTrip(t *testing.T) {
	pub := observer.New()
	l := NewObservableList[string](pub, "x")
	log := observe(t, pub, l)

	l.Append("a")
	require.NoError(t, l.Remove("a"))

	require.Len(t, log.events, 2)
	assert.True(t, log.events[0].Equal(observer.NewEvent("x.add", l, "a")))
	assert.True(t, log.events[1].Equal(observer.NewEvent("x.remove", l, "a")))
	assert.Zero(t, l.Len())
}

func TestObservableListBatch(t *testing.T) {
	pub := observer.New()
	l := NewObservableList[string](pub, "x", "old")
	log := observe(t, pub, l)

	ev := &observer.Event{}
	l.ExtendWith(ev, "a", "b")
	l.RemoveWith(ev, "old")
	assert.Empty(t, log.events)
	ev.Send(pub)

	require.Len(t, log.events, 1)
	assert.Equal(t, []interface{}{"a", "b"}, log.events[0].ValuesOf("x.add", l))
	assert.Equal(t, []interface{}{"old"}, log.events[0].ValuesOf("x.remove", l))
}

func TestObservableListRemoveMissing(t *testing.T) {
	pub := observer.New()
	l := NewObservableList[string](pub, "x", "a")
	log := observe(t, pub, l)

	assert.ErrorIs(t, l.Remove("z"), ErrNotFound)
	assert.Empty(t, log.events)

	assert.ErrorIs(t, l.RemoveItems("a", "z"), ErrNotFound)
	require.Len(t, log.events, 1)
	assert.Equal(t, []interface{}{"a"}, log.events[0].Values())
}

func TestObservableListClear(t *testing.T) {
	pub := observer.New()
	l := NewObservableList[string](pub, "x", "a", "b")
	log := observe(t, pub, l)

	l.Clear()
	require.Len(t, log.events, 1)
	assert.Equal(t, observer.EventType("x.remove"), log.events[0].Type())
	assert.Equal(t, []interface{}{"a", "b"}, log.events[0].Values())
}

func TestObservableSet(t *testing.T) {
	pub := observer.New()
	s := NewObservableSet[string](pub, "s", "a")
	log := observe(t, pub, s)

	t.Run("only new members are announced", func(t *testing.T) {
		s.Extend("a", "b")
		require.Len(t, log.events, 1)
		assert.Equal(t, []interface{}{"b"}, log.events[0].Values())
		s.Append("a")
		assert.Len(t, log.events, 1)
	})

	t.Run("only members are removed", func(t *testing.T) {
		require.NoError(t, s.RemoveItems("b", "z"))
		require.Len(t, log.events, 2)
		assert.Equal(t, []interface{}{"b"}, log.events[1].Values())
		assert.ErrorIs(t, s.Remove("z"), ErrNotFound)
		assert.Len(t, log.events, 2)
	})

	t.Run("clear", func(t *testing.T) {
		s.Clear()
		require.Len(t, log.events, 3)
		assert.Equal(t, []interface{}{"a"}, log.events[2].Values())
		assert.True(t, s.EqualContents(nil))
	})
}

func TestBind(t *testing.T) {
	pub := observer.New()
	type owner struct{ name string }
	o := &owner{"outer"}
	l := NewObservableList[string](pub, "x")
	l.Bind(o)

	var got interface{}
	require.NoError(t, pub.Register(observer.Bind(t, "onAdd", func(e *observer.Event) {
		got = e.Sources()[0]
	}), "x.add", o))
	l.Append("a")
	assert.Same(t, o, got)
}

func TestValuesOf(t *testing.T) {
	ev := observer.NewEvent("x.add", "src", "a", 1, "b")
	assert.Equal(t, []string{"a", "b"}, ValuesOf[string](ev, "x.add", "src"))
	assert.Empty(t, ValuesOf[string](ev, "x.remove", "src"))
}
