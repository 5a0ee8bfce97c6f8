package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recorder struct {
	events []*Event
}

func (r *recorder) HandleEvent(e *Event) {
	r.events = append(r.events, e)
}

func TestPublisherFiltersBySource(t *testing.T) {
	p := New(WithLogger(zaptest.NewLogger(t).Sugar()))
	s1, s2 := "s1", "s2"
	r := &recorder{}
	require.NoError(t, p.Register(HandlerCallback(r), "t", s1))

	NewEvent("t", s2, 1).Send(p)
	assert.Empty(t, r.events)

	NewEvent("t", s1, 1).Send(p)
	require.Len(t, r.events, 1)
	assert.True(t, r.events[0].Equal(NewEvent("t", s1, 1)))
}

func TestPublisherDeliversSubEvent(t *testing.T) {
	p := New()
	r := &recorder{}
	require.NoError(t, p.Register(HandlerCallback(r), "t1", nil))

	e := NewEvent("t1", "a", 1)
	e.AddSourceOfType("t1", "b", 2)
	e.AddSourceOfType("t2", "a", 3)
	e.Send(p)

	require.Len(t, r.events, 1)
	expected := NewEvent("t1", "a", 1)
	expected.AddSourceOfType("t1", "b", 2)
	assert.True(t, r.events[0].Equal(expected))
}

func TestPublisherCallsObserverOnce(t *testing.T) {
	p := New()
	r := &recorder{}
	cb := HandlerCallback(r)
	require.NoError(t, p.Register(cb, "t1", nil))
	require.NoError(t, p.Register(cb, "t1", "a"))
	require.NoError(t, p.Register(cb, "t2", "a"))
	require.NoError(t, p.Register(cb, "t2", "a"))

	e := NewEvent("t1", "a", 1)
	e.AddSourceOfType("t2", "a", 2)
	e.Send(p)

	require.Len(t, r.events, 1)
	assert.True(t, r.events[0].Equal(e))
}

func TestPublisherOrder(t *testing.T) {
	p := New()
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		require.NoError(t, p.Register(Bind(&name, name, func(*Event) {
			order = append(order, name)
		}), "t", nil))
	}
	NewEvent("t", "s").Send(p)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestPublisherRegisterErrors(t *testing.T) {
	p := New()
	assert.ErrorIs(t, p.Register(Callback{Name: "x", Func: func(*Event) {}}, "t", nil), ErrUnboundObserver)
	assert.ErrorIs(t, p.Register(Callback{Owner: "o", Name: "x"}, "t", nil), ErrUnboundObserver)
	assert.ErrorIs(t, p.Register(Bind([]int{}, "x", func(*Event) {}), "t", nil), ErrIncomparableOwner)
	assert.ErrorIs(t, p.Register(Bind("o", "x", func(*Event) {}), "t", []int{}), ErrIncomparableSource)
}

type boxed struct {
	V interface{}
}

func TestPublisherDynamicallyIncomparableValues(t *testing.T) {
	p := New()
	r := &recorder{}
	require.NoError(t, p.Register(HandlerCallback(r), "t", nil))

	src := boxed{V: []int{1}}
	assert.ErrorIs(t, p.Register(Bind("o", "x", func(*Event) {}), "t", src), ErrIncomparableSource)
	assert.ErrorIs(t, p.Register(Bind(src, "x", func(*Event) {}), "t", nil), ErrIncomparableOwner)
	assert.NoError(t, p.Register(Bind(boxed{V: 1}, "x", func(*Event) {}), "t", boxed{V: "a"}))

	assert.NotPanics(t, func() { NewEvent("t", src, 1).Send(p) })
	require.Len(t, r.events, 1)
	assert.True(t, r.events[0].Equal(NewEvent("t", boxed{V: []int{1}}, 1)))
}

func TestPublisherOrderAcrossKeys(t *testing.T) {
	p := New()
	var order []string
	record := func(name string) Callback {
		return Bind(name, "cb", func(*Event) { order = append(order, name) })
	}
	require.NoError(t, p.Register(record("wildcard"), "t", nil))
	require.NoError(t, p.Register(record("specific"), "t", "s"))
	require.NoError(t, p.Register(record("other type"), "u", "s"))

	e := NewEvent("u", "s")
	e.AddSourceOfType("t", "s")
	e.Send(p)
	assert.Equal(t, []string{"wildcard", "specific", "other type"}, order)

	p.Remove(record("wildcard"), "", nil)
	require.NoError(t, p.Register(record("wildcard"), "t", nil))
	order = nil
	NewEvent("t", "s").Send(p)
	assert.Equal(t, []string{"specific", "wildcard"}, order)
}

func TestPublisherRemove(t *testing.T) {
	setup := func() (*Publisher, Callback) {
		p := New()
		cb := Bind("owner", "cb", func(*Event) {})
		p.Register(cb, "t1", nil)
		p.Register(cb, "t1", "a")
		p.Register(cb, "t2", "a")
		return p, cb
	}

	t.Run("type and source", func(t *testing.T) {
		p, cb := setup()
		p.Remove(cb, "t1", "a")
		assert.Len(t, p.Observers("t1"), 1)
		assert.True(t, p.Registered(cb))
	})

	t.Run("type only", func(t *testing.T) {
		p, cb := setup()
		p.Remove(cb, "t1", nil)
		assert.Empty(t, p.Observers("t1"))
		assert.True(t, p.Registered(cb))
	})

	t.Run("source only", func(t *testing.T) {
		p, cb := setup()
		p.Remove(cb, "", "a")
		assert.Len(t, p.Observers("t1"), 1)
		NewEvent("t2", "a").Send(p)
	})

	t.Run("everything", func(t *testing.T) {
		p, cb := setup()
		p.Remove(Callback{Owner: "owner", Name: "cb"}, "", nil)
		assert.False(t, p.Registered(cb))
		assert.Empty(t, p.Observers(""))
	})
}

func TestPublisherObservers(t *testing.T) {
	p := New()
	a := Bind("a", "cb", func(*Event) {})
	b := Bind("b", "cb", func(*Event) {})
	p.Register(a, "t1", nil)
	p.Register(b, "t1", "src")
	p.Register(b, "t2", nil)

	t1 := p.Observers("t1")
	require.Len(t, t1, 1)
	assert.True(t, t1[0].Is(a))

	all := p.Observers("")
	require.Len(t, all, 2)
	assert.True(t, all[0].Is(a))
	assert.True(t, all[1].Is(b))

	p.Clear()
	assert.Empty(t, p.Observers(""))
}

func TestPublisherObserverMayRegister(t *testing.T) {
	p := New()
	late := &recorder{}
	require.NoError(t, p.Register(Bind("early", "cb", func(*Event) {
		p.Register(HandlerCallback(late), "t", nil)
	}), "t", nil))

	NewEvent("t", "s").Send(p)
	assert.Empty(t, late.events)
	NewEvent("t", "s").Send(p)
	assert.Len(t, late.events, 1)
}

func TestDefault(t *testing.T) {
	assert.Same(t, Default(), Default())
	assert.Same(t, Default(), Or(nil))
	p := New()
	assert.Same(t, p, Or(p))
}
