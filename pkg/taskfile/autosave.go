package taskfile

import (
	"context"
	"time"

	"github.com/manifold/taskcoach/pkg/misc/debouncer"
	"github.com/manifold/taskcoach/pkg/misc/logging"
	"github.com/manifold/taskcoach/pkg/pubsub"
)

// DefaultAutosaveDelay is used when Autosave.Delay is zero.
const DefaultAutosaveDelay = 2 * time.Second

// Autosave saves File a short while after it becomes dirty and once more
// when the daemon terminates.
type Autosave struct {
	File  *File
	Delay time.Duration
	Log   logging.Logger

	saves chan struct{}
}

func (a *Autosave) InitializeDaemon() error {
	delay := a.Delay
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	a.saves = make(chan struct{}, 1)
	debounce := debouncer.New(delay)
	return a.File.Subscribe(TopicDirty, func(pubsub.Message) {
		debounce(func() {
			select {
			case a.saves <- struct{}{}:
			default:
			}
		})
	})
}

func (a *Autosave) Serve(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-a.saves:
			if !a.File.NeedsSave() {
				continue
			}
			logging.Debug(a.Log, "autosave: change triggered save")
			if err := a.File.Save(); err != nil {
				logging.Error(a.Log, "autosave:", err)
			}
		}
	}
}

func (a *Autosave) TerminateDaemon() error {
	if !a.File.NeedsSave() {
		return nil
	}
	return a.File.Save()
}
