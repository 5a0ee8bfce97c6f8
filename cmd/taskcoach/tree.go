package main

import (
	"fmt"
	"strings"

	"github.com/manifold/taskcoach/pkg/collection"
	"github.com/manifold/taskcoach/pkg/composite"
	"github.com/manifold/taskcoach/pkg/task"
	"github.com/spf13/cobra"
)

// `taskcoach tree`
func treeCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Prints the tasks as a tree",
		Long:  "Prints the tasks as a tree, sorted and filtered by the taskviewer settings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(defaultLogger())
			if err != nil {
				return err
			}

			key := "subject"
			if keys, err := a.settings.GetList("taskviewer", "sortby"); err == nil && len(keys) > 0 {
				key = keys[0]
			}
			ascending, err := a.settings.GetBool("taskviewer", "sortascending")
			if err != nil {
				return err
			}
			hide, err := a.settings.GetBool("taskviewer", "hidecompletedtasks")
			if err != nil {
				return err
			}

			var view collection.Observable[composite.Composite] = a.list
			if hide && !all {
				view = task.NewFilter(view, task.ActiveOnly)
			}
			sorter, err := task.NewSorter(view, key, ascending)
			if err != nil {
				return err
			}
			defer sorter.Detach()

			out := cmd.OutOrStdout()
			for _, t := range sorter.SortedTree() {
				depth := 0
				for p := t.ParentTask(); p != nil && sorter.Contains(p); p = p.ParentTask() {
					depth++
				}
				check := "[ ]"
				if t.Completed() {
					check = "[x]"
				}
				fmt.Fprintf(out, "%s%s %s (%s)\n", strings.Repeat("  ", depth), check, t.Subject(), t.ID())
			}
			return a.close(false)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed tasks")
	return cmd
}
