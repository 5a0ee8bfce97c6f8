package console

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	ct "github.com/daviddengcn/go-colortext"
)

// LineWriter writes lines prefixed with the name of their source. With
// Color set, each source name gets its own terminal color.
type LineWriter struct {
	Output  io.Writer
	Padding int
	Color   bool

	wg     sync.WaitGroup
	mu     sync.Mutex
	colors map[string]ct.Color
}

var colors = []ct.Color{
	ct.Cyan,
	ct.Yellow,
	ct.Green,
	ct.Magenta,
	ct.Red,
	ct.Blue,
}

func (lw *LineWriter) Wait() {
	lw.wg.Wait()
}

// LineReader copies lines from r until it fails or ends.
func (lw *LineWriter) LineReader(name string, r io.Reader, isError bool) {
	lw.wg.Add(1)
	defer lw.wg.Done()

	if rc, ok := r.(io.ReadCloser); ok {
		defer rc.Close()
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lw.WriteLine(name, scanner.Text(), isError)
	}
}

// colorFor assigns colors to names in order of first use.
func (lw *LineWriter) colorFor(name string) ct.Color {
	if lw.colors == nil {
		lw.colors = make(map[string]ct.Color)
	}
	c, ok := lw.colors[name]
	if !ok {
		c = colors[len(lw.colors)%len(colors)]
		lw.colors[name] = c
	}
	return c
}

// WriteLine writes out a single line.
func (lw *LineWriter) WriteLine(left, right string, isError bool) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.Color {
		ct.ChangeColor(lw.colorFor(left), true, ct.None, false)
	}
	fmt.Fprintf(lw.Output, "%-*s | ", lw.Padding, left)

	if lw.Color {
		if isError {
			ct.ChangeColor(ct.Red, true, ct.None, true)
		} else {
			ct.ResetColor()
		}
	}
	fmt.Fprintln(lw.Output, right)
	if lw.Color && isError {
		ct.ResetColor()
	}
}
