package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	taskFile     string
	settingsPath string
	debugMode    bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "taskcoach",
		Short:         "Taskcoach task manager",
		Long:          "Taskcoach keeps a tree of tasks in a file. Run `taskcoach serve` to inspect it over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&taskFile, "file", "f", "tasks.json", "task file")
	cmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "settings file (default is <user config dir>/taskcoach/settings.yaml)")
	cmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "log debug output")
	cmd.AddCommand(
		treeCmd(),
		addCmd(),
		doneCmd(),
		deleteCmd(),
		settingsCmd(),
		serveCmd(),
	)
	return cmd
}

func main() {
	fatal(newRootCmd().Execute())
}

func fatal(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "taskcoach:", err)
		os.Exit(1)
	}
}
