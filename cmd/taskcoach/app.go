package main

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/manifold/taskcoach/pkg/logging/zap"
	"github.com/manifold/taskcoach/pkg/misc/logging"
	"github.com/manifold/taskcoach/pkg/observer"
	"github.com/manifold/taskcoach/pkg/pubsub"
	"github.com/manifold/taskcoach/pkg/settings"
	"github.com/manifold/taskcoach/pkg/task"
	"github.com/manifold/taskcoach/pkg/taskfile"
	"github.com/spf13/afero"
)

// app is what every command works on: settings, the task list and its file.
type app struct {
	log      logging.Logger
	pub      *observer.Publisher
	bus      *pubsub.Bus
	settings *settings.Settings
	list     *task.TaskList
	file     *taskfile.File

	// lock is held by whoever reads or changes list
	lock sync.Mutex
}

func defaultLogger() logging.Logger {
	if debugMode {
		return zap.NewLogger()
	}
	return zap.NewNop()
}

func openApp(log logging.Logger) (*app, error) {
	path := settingsPath
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "taskcoach", "settings.yaml")
	}

	fs := afero.NewOsFs()
	a := &app{
		log: log,
		pub: observer.New(observer.WithLogger(log)),
		bus: pubsub.New(),
	}
	a.bus.Log = log
	a.settings = settings.New(
		settings.WithPublisher(a.pub),
		settings.WithBus(a.bus),
		settings.WithFile(fs, path),
		settings.WithLogger(log),
	)
	if err := a.settings.Load(); err != nil {
		logging.Error(log, "settings:", err)
	}

	a.list = task.NewTaskList(a.pub)
	a.file = taskfile.New(a.list, taskFile,
		taskfile.WithFs(fs),
		taskfile.WithBus(a.bus),
		taskfile.WithLogger(log),
		taskfile.WithLocker(&a.lock),
	)
	if err := a.file.Load(); err != nil {
		return nil, err
	}
	a.settings.SetText("file", "lastfile", taskFile)
	return a, nil
}

// close saves the settings and, if save is set, the task file.
func (a *app) close(save bool) error {
	defer a.file.Close()
	if save && a.file.NeedsSave() {
		if err := a.file.Save(); err != nil {
			return err
		}
	}
	return a.settings.Save()
}
