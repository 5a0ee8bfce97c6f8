package task

import (
	"github.com/manifold/taskcoach/pkg/observer"
)

// NewTaskCommand adds a task, or a subtask when Parent is set.
type NewTaskCommand struct {
	List    *TaskList
	Subject string
	Parent  *Task

	task *Task
}

func (c *NewTaskCommand) Do() error {
	if c.Parent != nil {
		c.task = c.Parent.NewChild(c.Subject)
	} else {
		c.task = New(c.List.Publisher(), c.Subject)
	}
	c.List.Append(c.task)
	return nil
}

func (c *NewTaskCommand) Undo() error {
	return c.List.Remove(c.task)
}

func (c *NewTaskCommand) Redo() error {
	c.List.Append(c.task)
	return nil
}

// Task returns the task created by Do.
func (c *NewTaskCommand) Task() *Task {
	return c.task
}

func (c *NewTaskCommand) String() string {
	if c.Parent != nil {
		return "New subtask"
	}
	return "New task"
}

// DeleteCommand removes tasks with their subtasks. Undo puts them back
// under their old parents.
type DeleteCommand struct {
	List  *TaskList
	Tasks []*Task
}

func (c *DeleteCommand) Do() error {
	return c.List.RemoveItems(Composites(c.Tasks)...)
}

func (c *DeleteCommand) Undo() error {
	c.List.Extend(Composites(c.Tasks)...)
	return nil
}

func (c *DeleteCommand) Redo() error {
	return c.Do()
}

func (c *DeleteCommand) String() string {
	return "Delete task"
}

// EditSubjectCommand changes the subject of tasks in one event.
type EditSubjectCommand struct {
	Tasks   []*Task
	Subject string

	old []string
}

func (c *EditSubjectCommand) Do() error {
	if len(c.Tasks) == 0 {
		return nil
	}
	c.old = make([]string, len(c.Tasks))
	ev, done := observer.Begin(c.Tasks[0].Publisher(), nil)
	defer done()
	for i, t := range c.Tasks {
		c.old[i] = t.Subject()
		t.SetSubjectWith(ev, c.Subject)
	}
	return nil
}

func (c *EditSubjectCommand) Undo() error {
	if len(c.Tasks) == 0 {
		return nil
	}
	ev, done := observer.Begin(c.Tasks[0].Publisher(), nil)
	defer done()
	for i, t := range c.Tasks {
		t.SetSubjectWith(ev, c.old[i])
	}
	return nil
}

func (c *EditSubjectCommand) Redo() error {
	return c.Do()
}

func (c *EditSubjectCommand) String() string {
	return "Edit subject"
}

// MarkCompletedCommand toggles completion of tasks.
type MarkCompletedCommand struct {
	Tasks     []*Task
	Completed bool

	old []bool
}

func (c *MarkCompletedCommand) Do() error {
	if len(c.Tasks) == 0 {
		return nil
	}
	c.old = make([]bool, len(c.Tasks))
	ev, done := observer.Begin(c.Tasks[0].Publisher(), nil)
	defer done()
	for i, t := range c.Tasks {
		c.old[i] = t.Completed()
		t.SetCompletedWith(ev, c.Completed)
	}
	return nil
}

func (c *MarkCompletedCommand) Undo() error {
	if len(c.Tasks) == 0 {
		return nil
	}
	ev, done := observer.Begin(c.Tasks[0].Publisher(), nil)
	defer done()
	for i, t := range c.Tasks {
		t.SetCompletedWith(ev, c.old[i])
	}
	return nil
}

func (c *MarkCompletedCommand) Redo() error {
	return c.Do()
}

func (c *MarkCompletedCommand) String() string {
	if c.Completed {
		return "Mark completed"
	}
	return "Mark active"
}
