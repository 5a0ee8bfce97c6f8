package task

import (
	"testing"

	"github.com/manifold/taskcoach/pkg/command"
	"github.com/manifold/taskcoach/pkg/observer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteUndoRestoresParent(t *testing.T) {
	pub := observer.New()
	parent := New(pub, "parent")
	l := NewTaskList(pub, parent)
	child := parent.NewChild("child")
	l.Append(child)
	grandchild := child.NewChild("grandchild")
	l.Append(grandchild)

	h := command.NewHistory()
	require.NoError(t, h.Do(&DeleteCommand{List: l, Tasks: []*Task{child}}))
	assert.Equal(t, []*Task{parent}, l.Tasks())
	assert.Empty(t, parent.ChildTasks())
	assert.Equal(t, "Undo delete task", h.UndoLabel("Undo"))

	require.NoError(t, h.Undo())
	assert.ElementsMatch(t, []*Task{parent, child, grandchild}, l.Tasks())
	assert.Equal(t, []*Task{child}, parent.ChildTasks())
	assert.Equal(t, []*Task{grandchild}, child.ChildTasks())

	require.NoError(t, h.Redo())
	assert.Equal(t, []*Task{parent}, l.Tasks())
}

func TestNewTaskCommand(t *testing.T) {
	pub := observer.New()
	l := NewTaskList(pub)
	h := command.NewHistory()

	cmd := &NewTaskCommand{List: l, Subject: "root"}
	require.NoError(t, h.Do(cmd))
	root := cmd.Task()
	sub := &NewTaskCommand{List: l, Subject: "sub", Parent: root}
	require.NoError(t, h.Do(sub))
	assert.Equal(t, []*Task{sub.Task()}, root.ChildTasks())
	assert.Equal(t, "Undo new subtask", h.UndoLabel("Undo"))

	require.NoError(t, h.Undo())
	assert.Empty(t, root.ChildTasks())
	assert.Equal(t, []*Task{root}, l.Tasks())

	require.NoError(t, h.Redo())
	assert.Equal(t, []*Task{sub.Task()}, root.ChildTasks())
}

func TestEditCommands(t *testing.T) {
	pub := observer.New()
	a, b := New(pub, "a"), New(pub, "b")
	log := &eventLog{}
	require.NoError(t, pub.Register(observer.HandlerCallback(log), SubjectEventType, nil))

	h := command.NewHistory()
	require.NoError(t, h.Do(&EditSubjectCommand{Tasks: []*Task{a, b}, Subject: "c"}))
	assert.Equal(t, "c", a.Subject())
	assert.Equal(t, "c", b.Subject())
	require.Len(t, log.events, 1)
	assert.Len(t, log.events[0].Sources(), 2)

	require.NoError(t, h.Undo())
	assert.Equal(t, "a", a.Subject())
	assert.Equal(t, "b", b.Subject())

	require.NoError(t, h.Do(&MarkCompletedCommand{Tasks: []*Task{a}, Completed: true}))
	assert.True(t, a.Completed())
	assert.Equal(t, "Undo mark completed", h.UndoLabel("Undo"))
	require.NoError(t, h.Undo())
	assert.False(t, a.Completed())
}
