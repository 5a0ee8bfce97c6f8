package collection

import (
	"strings"
	"testing"

	"github.com/manifold/taskcoach/pkg/observer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoratorMirrorsObserved(t *testing.T) {
	pub := observer.New()
	l := NewObservableList[string](pub, "base", "a")
	d := NewListDecorator[string](l, "view", Hooks[string]{})

	assert.Equal(t, []string{"a"}, d.Items())

	l.Extend("b", "c")
	assert.Equal(t, []string{"a", "b", "c"}, d.Items())

	require.NoError(t, l.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, d.Items())
}

func TestDecoratorDelegatesMutations(t *testing.T) {
	pub := observer.New()
	l := NewObservableList[string](pub, "base")
	d := NewListDecorator[string](l, "view", Hooks[string]{})
	log := observe(t, pub, d)

	d.Append("a")
	d.Extend("b")
	assert.Equal(t, []string{"a", "b"}, l.Items())
	assert.Equal(t, []string{"a", "b"}, d.Items())
	require.Len(t, log.events, 2)
	assert.True(t, log.events[0].Equal(observer.NewEvent("view.add", d, "a")))

	require.NoError(t, d.Remove("a"))
	assert.Equal(t, []string{"b"}, l.Items())

	d.Clear()
	assert.Zero(t, l.Len())
	assert.Zero(t, d.Len())
}

func TestDecoratorIgnoresOtherCollections(t *testing.T) {
	pub := observer.New()
	l := NewObservableList[string](pub, "base")
	other := NewObservableList[string](pub, "base")
	d := NewListDecorator[string](l, "view", Hooks[string]{})

	other.Append("x")
	assert.Zero(t, d.Len())
}

func TestDecoratorHooks(t *testing.T) {
	pub := observer.New()
	l := NewObservableList[string](pub, "base", "apple", "Banana")
	upper := func(d *Decorator[string], ev *observer.Event, items []string) {
		var keep []string
		for _, item := range items {
			if strings.ToUpper(item[:1]) == item[:1] {
				keep = append(keep, item)
			}
		}
		d.ExtendSelf(nil, keep...)
	}
	d := NewSetDecorator[string](l, "capitalized", Hooks[string]{OnAddItem: upper})

	assert.True(t, d.self.(*ObservableSet[string]).EqualContents([]string{"Banana"}))
	l.Extend("cherry", "Date")
	assert.ElementsMatch(t, []string{"Banana", "Date"}, d.Items())

	require.NoError(t, l.RemoveItems("cherry", "Date"))
	assert.ElementsMatch(t, []string{"Banana"}, d.Items())
}

func TestDecoratorChain(t *testing.T) {
	pub := observer.New()
	l := NewObservableList[string](pub, "base", "a")
	inner := NewListDecorator[string](l, "inner", Hooks[string]{})
	thawed := 0
	outer := NewListDecorator[string](inner, "outer", Hooks[string]{
		OnThaw: func(*Decorator[string]) { thawed++ },
	})

	assert.Same(t, inner, outer.Observed(false))
	assert.Same(t, l, outer.Observed(true))

	l.Append("b")
	assert.Equal(t, []string{"a", "b"}, outer.Items())

	outer.Append("c")
	assert.Equal(t, []string{"a", "b", "c"}, l.Items())

	t.Run("freeze propagates", func(t *testing.T) {
		outer.Freeze()
		outer.Freeze()
		assert.True(t, outer.IsFrozen())
		assert.True(t, inner.IsFrozen())

		outer.Thaw()
		assert.True(t, inner.IsFrozen())
		assert.Zero(t, thawed)

		outer.Thaw()
		assert.False(t, outer.IsFrozen())
		assert.False(t, inner.IsFrozen())
		assert.Equal(t, 1, thawed)

		outer.Thaw()
		assert.Equal(t, 1, thawed)
	})
}

func TestDecoratorDetach(t *testing.T) {
	pub := observer.New()
	l := NewObservableList[string](pub, "base")
	inner := NewListDecorator[string](l, "inner", Hooks[string]{})
	outer := NewListDecorator[string](inner, "outer", Hooks[string]{})

	outer.Detach()
	assert.Zero(t, outer.Observing())
	assert.Zero(t, inner.Observing())

	l.Append("a")
	assert.Zero(t, inner.Len())
	assert.Zero(t, outer.Len())
}
