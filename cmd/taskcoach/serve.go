package main

import (
	"context"
	"time"

	"github.com/manifold/taskcoach/pkg/command"
	"github.com/manifold/taskcoach/pkg/console"
	"github.com/manifold/taskcoach/pkg/daemon"
	"github.com/manifold/taskcoach/pkg/misc/logging"
	"github.com/manifold/taskcoach/pkg/pubsub"
	"github.com/manifold/taskcoach/pkg/server"
	"github.com/manifold/taskcoach/pkg/task"
	"github.com/manifold/taskcoach/pkg/taskfile"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

type serverConfig struct {
	Address  string `mapstructure:"address"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Journal  int    `mapstructure:"journal"`
}

type fileConfig struct {
	AutoSave      bool          `mapstructure:"autosave"`
	AutoSaveDelay time.Duration `mapstructure:"autosavedelay"`
	Monitor       bool          `mapstructure:"monitor"`
}

// `taskcoach serve`
func serveCmd() *cobra.Command {
	var (
		addr, user, password string
		openBrowser          bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the task list over HTTP",
		Long:  "Serves the task list over HTTP, saving changes as they happen and logging every event to the console.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			con := console.New(debugMode)
			a, err := openApp(con.Logger)
			if err != nil {
				return err
			}

			var srvCfg serverConfig
			if err := a.settings.Decode("server", &srvCfg); err != nil {
				return err
			}
			var fileCfg fileConfig
			if err := a.settings.Decode("file", &fileCfg); err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("addr") {
				srvCfg.Address = addr
			}
			if flags.Changed("user") {
				srvCfg.Username = user
			}
			if flags.Changed("password") {
				srvCfg.Password = password
			}

			journal, err := console.NewJournal(a.pub, 0)
			if err != nil {
				return err
			}
			journal.Lines = con.Lines
			journal.Verbose = debugMode
			types := append(a.list.ModificationEventTypes(), task.AttributeEventTypes()...)
			if err := journal.Observe(append(types, task.ChildEventTypes()...)...); err != nil {
				return err
			}
			defer journal.RemoveInstance()

			a.bus.Subscribe("serve", taskfile.TopicChangedOnDisk, func(msg pubsub.Message) {
				logging.Info(con.Logger, msg.Value, "was changed by another program; restart to reload it")
			})

			srv := &server.Server{
				Addr:         srvCfg.Address,
				Username:     srvCfg.Username,
				Password:     srvCfg.Password,
				Log:          con.Logger,
				Tasks:        a.list,
				History:      command.NewHistory(),
				Journal:      journal,
				JournalLines: srvCfg.Journal,
				Lock:         &a.lock,
			}

			components := []interface{}{con, srv}
			if fileCfg.AutoSave {
				components = append(components, &taskfile.Autosave{
					File:  a.file,
					Delay: fileCfg.AutoSaveDelay,
					Log:   con.Logger,
				})
			}
			if fileCfg.Monitor {
				components = append(components, &taskfile.Monitor{File: a.file, Log: con.Logger})
			}
			if openBrowser {
				components = append(components, &browser{srv: srv, log: con.Logger})
			}

			d := daemon.New(components...)
			d.Log = con.Logger
			runErr := d.Run(context.Background())
			if err := a.close(true); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.address)")
	cmd.Flags().StringVar(&user, "user", "", "basic auth username")
	cmd.Flags().StringVar(&password, "password", "", "basic auth password")
	cmd.Flags().BoolVar(&openBrowser, "open", false, "open the task list in a browser")
	return cmd
}

// browser opens the server's task list once it is listening.
type browser struct {
	srv *server.Server
	log logging.Logger
}

func (b *browser) Serve(ctx context.Context) {
	url := b.srv.URL() + "/tasks"
	if err := open.Run(url); err != nil {
		logging.Error(b.log, "open:", err)
	}
}
