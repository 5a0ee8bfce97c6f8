package console

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/manifold/taskcoach/pkg/observer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type named string

func (n named) String() string { return "named " + string(n) }

func TestLineWriter(t *testing.T) {
	var out bytes.Buffer
	lw := &LineWriter{Output: &out, Padding: 4}

	lw.WriteLine("a", "first", false)
	r, w := io.Pipe()
	go func() {
		fmt.Fprint(w, "one\ntwo\n")
		w.Close()
	}()
	lw.LineReader("bb", r, false)
	lw.Wait()

	assert.Equal(t, "a    | first\nbb   | one\nbb   | two\n", out.String())
}

func TestLineWriterColors(t *testing.T) {
	lw := &LineWriter{}
	a := lw.colorFor("a")
	assert.Equal(t, a, lw.colorFor("a"))
	assert.NotEqual(t, a, lw.colorFor("b"))
}

func TestJournal(t *testing.T) {
	pub := observer.New()
	j, err := NewJournal(pub, 0)
	require.NoError(t, err)
	require.NoError(t, j.Observe("x.add"))

	var out bytes.Buffer
	j.Lines = &LineWriter{Output: &out}

	observer.NewEvent("x.add", named("list"), "foo", 1).Send(pub)
	observer.NewEvent("x.remove", named("list"), "foo").Send(pub)

	assert.Equal(t, []string{"x.add named list: [foo 1]"}, j.Tail(0))
	assert.Contains(t, out.String(), "x.add named list: [foo 1]")

	j.Verbose = true
	observer.NewEvent("x.add", named("list"), "bar").Send(pub)
	lines := j.Tail(1)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `(string) (len=3) "bar"`)

	j.RemoveInstance()
	observer.NewEvent("x.add", named("list"), "baz").Send(pub)
	assert.Len(t, j.Tail(0), 2)

	j.Reset()
	assert.Empty(t, j.Tail(0))
}

func TestJournalWraps(t *testing.T) {
	j, err := NewJournal(observer.New(), 32)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		j.write("t", fmt.Sprintf("line %d", i))
	}
	lines := j.Tail(0)
	require.NotEmpty(t, lines)
	assert.Equal(t, "line 9", lines[len(lines)-1])
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "line "), line)
	}
	assert.Equal(t, []string{"line 8", "line 9"}, j.Tail(2))
}

func TestDescribe(t *testing.T) {
	type opaque struct{ n int }
	assert.Equal(t, "named x", describe(named("x")))
	assert.Equal(t, "*console.opaque", describe(&opaque{}))
	assert.Equal(t, "42", describe(42))
	assert.Equal(t, "<nil>", describe(nil))
}
