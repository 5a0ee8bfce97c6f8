package task

import (
	"github.com/manifold/taskcoach/pkg/composite"
	"github.com/manifold/taskcoach/pkg/observer"
)

// ListNamespace gives the list events "task.TaskList.add" and
// "task.TaskList.remove".
const ListNamespace = "task.TaskList"

// TaskList holds every task, subtasks included.
type TaskList struct {
	*composite.CompositeList
}

func NewTaskList(pub *observer.Publisher, tasks ...*Task) *TaskList {
	l := &TaskList{
		CompositeList: composite.NewCompositeList(pub, ListNamespace),
	}
	l.Bind(l)
	l.Extend(Composites(tasks)...)
	return l
}

func (l *TaskList) Tasks() []*Task {
	return Tasks(l.Items())
}

func (l *TaskList) RootTasks() []*Task {
	return Tasks(l.RootItems())
}

// Find returns the task with id, or nil.
func (l *TaskList) Find(id string) *Task {
	for _, t := range l.Tasks() {
		if t.ID() == id {
			return t
		}
	}
	return nil
}

// AttributeEventTypes are the event types tasks send about themselves.
func AttributeEventTypes() []observer.EventType {
	return []observer.EventType{SubjectEventType, CompletedEventType}
}

// ChildEventTypes are the event types tasks send when subtasks are added
// or removed.
func ChildEventTypes() []observer.EventType {
	return []observer.EventType{
		composite.AddChildEventType(Namespace),
		composite.RemoveChildEventType(Namespace),
	}
}
