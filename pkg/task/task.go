package task

import (
	"github.com/manifold/taskcoach/pkg/composite"
	"github.com/manifold/taskcoach/pkg/observer"
	"github.com/rs/xid"
)

const (
	// Namespace of task child events: "composite(task.Task).child.add".
	Namespace = "task.Task"

	SubjectEventType   observer.EventType = "task.subject"
	CompletedEventType observer.EventType = "task.completed"
)

// Task is an observable composite with a subject and a completion flag.
type Task struct {
	composite.ObservableNode

	id        string
	subject   string
	completed bool
}

// New returns a task with a fresh ID. A nil pub means the default
// publisher.
func New(pub *observer.Publisher, subject string) *Task {
	return NewWithID(pub, xid.New().String(), subject)
}

// NewWithID is New with a known ID, for tasks read back from a file.
func NewWithID(pub *observer.Publisher, id, subject string) *Task {
	t := &Task{id: id, subject: subject}
	t.Init(t, pub, Namespace)
	return t
}

func (t *Task) ID() string {
	return t.id
}

func (t *Task) Subject() string {
	return t.subject
}

func (t *Task) SetSubject(subject string) {
	t.SetSubjectWith(nil, subject)
}

func (t *Task) SetSubjectWith(ev *observer.Event, subject string) {
	if subject == t.subject {
		return
	}
	ev, done := observer.Begin(t.Publisher(), ev)
	defer done()
	t.subject = subject
	ev.AddSourceOfType(SubjectEventType, t, subject)
}

func (t *Task) Completed() bool {
	return t.completed
}

func (t *Task) SetCompleted(completed bool) {
	t.SetCompletedWith(nil, completed)
}

func (t *Task) SetCompletedWith(ev *observer.Event, completed bool) {
	if completed == t.completed {
		return
	}
	ev, done := observer.Begin(t.Publisher(), ev)
	defer done()
	t.completed = completed
	ev.AddSourceOfType(CompletedEventType, t, completed)
}

// NewChild returns a new task added to t's children. Add it to a TaskList
// to make it a member.
func (t *Task) NewChild(subject string) *Task {
	child := New(t.Publisher(), subject)
	t.AddChildWith(nil, child)
	return child
}

// Copy returns a task with a new ID, the same subject and state, the same
// parent and copies of the children.
func (t *Task) Copy() composite.Composite {
	cp := New(t.Publisher(), t.subject)
	cp.completed = t.completed
	cp.SetParent(t.Parent())
	for _, child := range t.Children() {
		cp.ObservableNode.Node.AddChild(composite.CopyOf(child))
	}
	return cp
}

// ChildTasks returns the children that are tasks.
func (t *Task) ChildTasks() []*Task {
	return Tasks(t.Children())
}

// ParentTask returns the parent if it is a task.
func (t *Task) ParentTask() *Task {
	parent, _ := t.Parent().(*Task)
	return parent
}

func (t *Task) String() string {
	return t.subject
}

// Tasks keeps the tasks among composites.
func Tasks(composites []composite.Composite) []*Task {
	var tasks []*Task
	for _, c := range composites {
		if t, ok := c.(*Task); ok {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

// Composites is the inverse of Tasks.
func Composites(tasks []*Task) []composite.Composite {
	out := make([]composite.Composite, len(tasks))
	for i, t := range tasks {
		out[i] = t
	}
	return out
}
