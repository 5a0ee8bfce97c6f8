package taskfile

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/manifold/taskcoach/pkg/misc/logging"
)

// Monitor watches the directory of File on the OS filesystem and publishes
// TopicChangedOnDisk when another program modifies the file.
type Monitor struct {
	File *File
	Log  logging.Logger
}

func (m *Monitor) Serve(ctx context.Context) {
	if m.File.Filename() == "" {
		logging.Info(m.Log, "monitor: no task file to watch")
		<-ctx.Done()
		return
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Info(m.Log, "monitor: unable to create watcher:", err)
		return
	}
	defer watcher.Close()

	filename, err := filepath.Abs(m.File.Filename())
	if err != nil {
		logging.Error(m.Log, "monitor:", err)
		return
	}
	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		logging.Error(m.Log, "monitor:", err)
		return
	}
	logging.Info(m.Log, "monitor: watching", filename)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}
			if name, err := filepath.Abs(event.Name); err != nil || name != filename {
				continue
			}
			m.check()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logging.Debug(m.Log, "monitor: watcher error:", err)
		}
	}
}

func (m *Monitor) check() {
	changed, err := m.File.ChangedOnDisk()
	if err != nil {
		logging.Debug(m.Log, "monitor:", err)
		return
	}
	if changed {
		filename := m.File.Filename()
		logging.Info(m.Log, "monitor:", filename, "changed on disk")
		m.File.Bus().Publish(TopicChangedOnDisk, filename)
	}
}
