package debouncer

import (
	"sync"
	"time"
)

// New returns a debounce func. Each call replaces the pending func and
// restarts the delay; only the last func given runs, once after calls stop.
func New(after time.Duration) func(f func()) {
	d := &debouncer{after: after}
	return d.add
}

type debouncer struct {
	mu    sync.Mutex
	after time.Duration
	timer *time.Timer
}

func (d *debouncer) add(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.after, f)
}
