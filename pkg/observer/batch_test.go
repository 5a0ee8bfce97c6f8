package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	pub *Publisher
	n   int
}

func (c *counter) inc(ev *Event) {
	ev, done := Begin(c.pub, ev)
	defer done()
	c.n++
	ev.AddSourceOfType("counter.inc", c, c.n)
}

func (c *counter) incTwice(ev *Event) {
	ev, done := Begin(c.pub, ev)
	defer done()
	c.inc(ev)
	c.inc(ev)
}

func TestBeginSendsOnceFromOutermostCall(t *testing.T) {
	p := New()
	c := &counter{pub: p}
	r := &recorder{}
	require.NoError(t, p.Register(HandlerCallback(r), "counter.inc", nil))

	c.incTwice(nil)
	require.Len(t, r.events, 1)
	assert.Equal(t, []interface{}{1, 2}, r.events[0].ValuesOf("counter.inc", c))

	c.inc(nil)
	require.Len(t, r.events, 2)
	assert.Equal(t, 3, r.events[1].Value())
}

func TestBeginBorrowedEventIsNotSent(t *testing.T) {
	p := New()
	c := &counter{pub: p}
	r := &recorder{}
	require.NoError(t, p.Register(HandlerCallback(r), "counter.inc", nil))

	ev := &Event{}
	c.incTwice(ev)
	assert.Empty(t, r.events)
	ev.Send(p)
	assert.Len(t, r.events, 1)
}

func TestBeginEmptyBatchNotifiesNobody(t *testing.T) {
	p := New()
	r := &recorder{}
	require.NoError(t, p.Register(HandlerCallback(r), "counter.inc", nil))
	_, done := Begin(p, nil)
	done()
	assert.Empty(t, r.events)
}
