package taskfile

import (
	"github.com/manifold/taskcoach/pkg/observer"
	"github.com/manifold/taskcoach/pkg/task"
	"github.com/mitchellh/hashstructure"
)

// Version of the snapshot format written by Save.
const Version = 1

type Snapshot struct {
	Version int            `json:"version"`
	Tasks   []TaskSnapshot `json:"tasks"`
}

type TaskSnapshot struct {
	ID        string         `json:"id"`
	Subject   string         `json:"subject"`
	Completed bool           `json:"completed,omitempty"`
	ParentID  string         `json:"parentId,omitempty"`
	Children  []TaskSnapshot `json:"children,omitempty"`
}

// TakeSnapshot captures the tasks of list as a tree. Subtasks that are not
// in the list are left out.
func TakeSnapshot(list *task.TaskList) Snapshot {
	snap := Snapshot{Version: Version}
	for _, root := range list.RootTasks() {
		snap.Tasks = append(snap.Tasks, snapshotTask(list, root))
	}
	return snap
}

func snapshotTask(list *task.TaskList, t *task.Task) TaskSnapshot {
	ts := TaskSnapshot{
		ID:        t.ID(),
		Subject:   t.Subject(),
		Completed: t.Completed(),
	}
	if parent := t.ParentTask(); parent != nil {
		ts.ParentID = parent.ID()
	}
	for _, child := range t.ChildTasks() {
		if list.Contains(child) {
			ts.Children = append(ts.Children, snapshotTask(list, child))
		}
	}
	return ts
}

// Restore builds the task trees of snap and returns the roots.
func (snap Snapshot) Restore(pub *observer.Publisher) []*task.Task {
	var roots []*task.Task
	for _, ts := range snap.Tasks {
		roots = append(roots, ts.restore(pub))
	}
	return roots
}

func (ts TaskSnapshot) restore(pub *observer.Publisher) *task.Task {
	t := task.NewWithID(pub, ts.ID, ts.Subject)
	t.SetCompleted(ts.Completed)
	for _, child := range ts.Children {
		t.AddChild(child.restore(pub))
	}
	return t
}

// Fingerprint hashes the snapshot contents.
func (snap Snapshot) Fingerprint() (uint64, error) {
	return hashstructure.Hash(snap, nil)
}
