package main

import (
	"fmt"
	"strings"

	"github.com/manifold/taskcoach/pkg/command"
	"github.com/manifold/taskcoach/pkg/task"
	"github.com/spf13/cobra"
)

// `taskcoach add`
func addCmd() *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "add <subject>",
		Short: "Adds a task",
		Long:  "Adds a task, or a subtask of --parent, and prints its ID.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(defaultLogger())
			if err != nil {
				return err
			}
			c := &task.NewTaskCommand{List: a.list, Subject: strings.Join(args, " ")}
			if parent != "" {
				if c.Parent = a.list.Find(parent); c.Parent == nil {
					return fmt.Errorf("no task %s", parent)
				}
			}
			if err := c.Do(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Task().ID())
			return a.close(true)
		},
	}
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "ID of the parent task")
	return cmd
}

// `taskcoach done`
func doneCmd() *cobra.Command {
	var reopen bool
	cmd := &cobra.Command{
		Use:   "done <id>...",
		Short: "Marks tasks completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return onTasks(args, func(a *app, tasks []*task.Task) command.Command {
				return &task.MarkCompletedCommand{Tasks: tasks, Completed: !reopen}
			})
		},
	}
	cmd.Flags().BoolVar(&reopen, "reopen", false, "mark the tasks active again")
	return cmd
}

// `taskcoach delete`
func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Deletes tasks with their subtasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return onTasks(args, func(a *app, tasks []*task.Task) command.Command {
				return &task.DeleteCommand{List: a.list, Tasks: tasks}
			})
		},
	}
}

func onTasks(ids []string, newCommand func(*app, []*task.Task) command.Command) error {
	a, err := openApp(defaultLogger())
	if err != nil {
		return err
	}
	var tasks []*task.Task
	for _, id := range ids {
		t := a.list.Find(id)
		if t == nil {
			return fmt.Errorf("no task %s", id)
		}
		tasks = append(tasks, t)
	}
	if err := newCommand(a, tasks).Do(); err != nil {
		return err
	}
	return a.close(true)
}
