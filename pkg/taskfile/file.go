package taskfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/manifold/taskcoach/pkg/misc/logging"
	"github.com/manifold/taskcoach/pkg/observer"
	"github.com/manifold/taskcoach/pkg/pubsub"
	"github.com/manifold/taskcoach/pkg/task"
	"github.com/spf13/afero"
)

const (
	TopicDirty           pubsub.Topic = "taskfile.dirty"
	TopicClean           pubsub.Topic = "taskfile.clean"
	TopicFilenameChanged pubsub.Topic = "taskfile.filenameChanged"
	TopicChangedOnDisk   pubsub.Topic = "taskfile.changedOnDisk"
)

var ErrNoFilename = errors.New("taskfile: no filename set")

// File ties a task list to a file. It watches the list and its tasks and
// publishes on the topic bus when the contents start or stop differing
// from what is on disk.
type File struct {
	*observer.Registrations
	Log logging.Logger

	list *task.TaskList
	fs   afero.Fs
	bus  *pubsub.Bus
	lock sync.Locker

	mu        sync.Mutex
	filename  string
	dirty     bool
	loading   bool
	saving    bool
	savedHash uint64
	stamp     time.Time
}

type Option func(*File)

func WithFs(fs afero.Fs) Option {
	return func(f *File) { f.fs = fs }
}

func WithBus(bus *pubsub.Bus) Option {
	return func(f *File) { f.bus = bus }
}

func WithLogger(log logging.Logger) Option {
	return func(f *File) { f.Log = log }
}

// WithLocker sets the lock held while the task list is read or replaced.
// Pass the lock that other goroutines mutating the list hold.
func WithLocker(l sync.Locker) Option {
	return func(f *File) { f.lock = l }
}

func New(list *task.TaskList, filename string, opts ...Option) *File {
	f := &File{
		list:     list,
		filename: filename,
		fs:       afero.NewOsFs(),
		lock:     &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.bus == nil {
		f.bus = pubsub.Default()
	}
	f.Registrations = observer.NewRegistrations(f, list.Publisher(), f.bus)

	for _, et := range list.ModificationEventTypes() {
		f.RegisterObserver("onChange", f.onChange, et, list)
	}
	for _, et := range append(task.AttributeEventTypes(), task.ChildEventTypes()...) {
		f.RegisterObserver("onChange", f.onChange, et, nil)
	}
	f.savedHash = f.fingerprint()
	return f
}

func (f *File) List() *task.TaskList {
	return f.list
}

func (f *File) Filename() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filename
}

func (f *File) SetFilename(filename string) {
	f.mu.Lock()
	changed := filename != f.filename
	f.filename = filename
	f.mu.Unlock()
	if changed {
		f.bus.Publish(TopicFilenameChanged, filename)
	}
}

// NeedsSave reports whether the list differs from the last load or save.
func (f *File) NeedsSave() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

func (f *File) fingerprint() uint64 {
	hash, err := TakeSnapshot(f.list).Fingerprint()
	if err != nil {
		logging.Error(f.Log, "taskfile: fingerprint:", err)
	}
	return hash
}

// onChange runs on the goroutine that changed the list, with the list
// lock held by that goroutine.
func (f *File) onChange(ev *observer.Event) {
	f.mu.Lock()
	loading := f.loading
	f.mu.Unlock()
	if loading {
		return
	}
	hash := f.fingerprint()
	f.mu.Lock()
	was := f.dirty
	f.dirty = hash != f.savedHash
	now, filename := f.dirty, f.filename
	f.mu.Unlock()

	switch {
	case now && !was:
		logging.Debug(f.Log, "taskfile: dirty after", ev)
		f.bus.Publish(TopicDirty, filename)
	case !now && was:
		f.bus.Publish(TopicClean, filename)
	}
}

func (f *File) markClean(hash uint64, stamp time.Time) {
	f.mu.Lock()
	was := f.dirty
	f.dirty = false
	f.savedHash = hash
	f.stamp = stamp
	filename := f.filename
	f.mu.Unlock()
	if was {
		f.bus.Publish(TopicClean, filename)
	}
}

// Load replaces the list contents with the file's tasks. A missing file
// gives an empty list.
func (f *File) Load() error {
	filename := f.Filename()
	if filename == "" {
		return ErrNoFilename
	}
	var snap Snapshot
	buf, err := afero.ReadFile(f.fs, filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("taskfile: reading %s: %w", filename, err)
	default:
		if err := json.Unmarshal(buf, &snap); err != nil {
			return fmt.Errorf("taskfile: parsing %s: %w", filename, err)
		}
	}

	f.setLoading(true)
	defer f.setLoading(false)
	f.lock.Lock()
	roots := snap.Restore(f.list.Publisher())
	ev, done := observer.Begin(f.list.Publisher(), nil)
	f.list.ClearWith(ev)
	f.list.ExtendWith(ev, task.Composites(roots)...)
	done()
	hash := f.fingerprint()
	count := f.list.Len()
	f.lock.Unlock()

	f.markClean(hash, f.modTime(filename))
	logging.Info(f.Log, "taskfile: loaded", count, "tasks from", filename)
	return nil
}

func (f *File) setLoading(loading bool) {
	f.mu.Lock()
	f.loading = loading
	f.mu.Unlock()
}

func (f *File) setSaving(saving bool) {
	f.mu.Lock()
	f.saving = saving
	f.mu.Unlock()
}

// Save writes the list to a temporary file next to the target and renames
// it over the target.
func (f *File) Save() error {
	filename := f.Filename()
	if filename == "" {
		return ErrNoFilename
	}

	f.lock.Lock()
	snap := TakeSnapshot(f.list)
	f.lock.Unlock()

	f.setSaving(true)
	defer f.setSaving(false)

	hash, err := snap.Fingerprint()
	if err != nil {
		return err
	}
	buf, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := f.fs.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp := filename + ".tmp"
	if err := afero.WriteFile(f.fs, tmp, buf, 0644); err != nil {
		return fmt.Errorf("taskfile: writing %s: %w", tmp, err)
	}
	if err := f.fs.Rename(tmp, filename); err != nil {
		return fmt.Errorf("taskfile: renaming %s: %w", tmp, err)
	}

	f.markClean(hash, f.modTime(filename))
	logging.Debug(f.Log, "taskfile: saved", filename)
	return nil
}

// SaveAs saves under a new filename.
func (f *File) SaveAs(filename string) error {
	f.SetFilename(filename)
	return f.Save()
}

// ChangedOnDisk reports whether the file was modified since it was last
// loaded or saved by f. It is false while f is saving.
func (f *File) ChangedOnDisk() (bool, error) {
	f.mu.Lock()
	filename, saving := f.filename, f.saving
	f.mu.Unlock()
	if saving || filename == "" {
		return false, nil
	}
	info, err := f.fs.Stat(filename)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return !info.ModTime().Equal(f.stamp), nil
}

func (f *File) modTime(filename string) time.Time {
	info, err := f.fs.Stat(filename)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

// Close stops tracking changes.
func (f *File) Close() {
	f.RemoveInstance()
}
