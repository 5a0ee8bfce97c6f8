package console

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/armon/circbuf"
	"github.com/davecgh/go-spew/spew"
	"github.com/manifold/taskcoach/pkg/observer"
)

// DefaultJournalSize is the ring buffer size in bytes.
const DefaultJournalSize = 64 * 1024

// Journal records delivered events as lines in a ring buffer, so only the
// most recent lines are kept. Lines are also written to Lines when set.
type Journal struct {
	*observer.Registrations

	Lines   *LineWriter
	Verbose bool

	mu  sync.Mutex
	buf *circbuf.Buffer
}

func NewJournal(pub *observer.Publisher, size int64) (*Journal, error) {
	if size <= 0 {
		size = DefaultJournalSize
	}
	buf, err := circbuf.NewBuffer(size)
	if err != nil {
		return nil, err
	}
	j := &Journal{buf: buf}
	j.Registrations = observer.NewRegistrations(j, pub, nil)
	return j, nil
}

// Observe records events of the given types from any source.
func (j *Journal) Observe(types ...observer.EventType) error {
	for _, t := range types {
		if err := j.RegisterObserver("record", j.Record, t, nil); err != nil {
			return err
		}
	}
	return nil
}

// Record writes one line per type and source of ev.
func (j *Journal) Record(ev *observer.Event) {
	for _, t := range ev.Types() {
		for _, source := range ev.Sources(t) {
			values := ev.ValuesOf(t, source)
			var line string
			if j.Verbose {
				line = fmt.Sprintf("%s %s: %s", t, describe(source), strings.TrimSpace(spew.Sdump(values...)))
			} else {
				line = fmt.Sprintf("%s %s: %s", t, describe(source), describeAll(values))
			}
			j.write(string(t), line)
		}
	}
}

func (j *Journal) write(kind, line string) {
	j.mu.Lock()
	j.buf.Write([]byte(line + "\n"))
	j.mu.Unlock()
	if j.Lines != nil {
		j.Lines.WriteLine(kind, line, false)
	}
}

// Tail returns up to n of the most recent lines, oldest first. A line cut
// by the ring buffer wrapping is dropped. n <= 0 returns every line.
func (j *Journal) Tail(n int) []string {
	j.mu.Lock()
	data := append([]byte(nil), j.buf.Bytes()...)
	wrapped := j.buf.TotalWritten() > j.buf.Size()
	j.mu.Unlock()

	if wrapped {
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			data = data[i+1:]
		} else {
			data = nil
		}
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.buf.Reset()
}

func describe(v interface{}) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	if v != nil && reflect.TypeOf(v).Kind() == reflect.Ptr {
		return fmt.Sprintf("%T", v)
	}
	return fmt.Sprintf("%v", v)
}

func describeAll(values []interface{}) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = describe(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
