package command

import (
	"strings"
)

// Command is an undoable operation. String names the command for menus,
// e.g. "Delete task".
type Command interface {
	Do() error
	Undo() error
	Redo() error
	String() string
}

// History keeps executed commands for undo and undone commands for redo.
type History struct {
	history []Command
	future  []Command
}

func NewHistory() *History {
	return &History{}
}

// Do executes cmd and records it. Executing a new command forgets the
// undone ones.
func (h *History) Do(cmd Command) error {
	if err := cmd.Do(); err != nil {
		return err
	}
	h.Append(cmd)
	return nil
}

// Append records an already executed command.
func (h *History) Append(cmd Command) {
	h.history = append(h.history, cmd)
	h.future = nil
}

func (h *History) Undo() error {
	if len(h.history) == 0 {
		return nil
	}
	cmd := h.history[len(h.history)-1]
	if err := cmd.Undo(); err != nil {
		return err
	}
	h.history = h.history[:len(h.history)-1]
	h.future = append(h.future, cmd)
	return nil
}

func (h *History) Redo() error {
	if len(h.future) == 0 {
		return nil
	}
	cmd := h.future[len(h.future)-1]
	if err := cmd.Redo(); err != nil {
		return err
	}
	h.future = h.future[:len(h.future)-1]
	h.history = append(h.history, cmd)
	return nil
}

func (h *History) Clear() {
	h.history = nil
	h.future = nil
}

func (h *History) HasHistory() bool {
	return len(h.history) > 0
}

func (h *History) HasFuture() bool {
	return len(h.future) > 0
}

// UndoLabel returns label followed by the lowercased name of the command
// Undo would revert, or just label.
func (h *History) UndoLabel(label string) string {
	if len(h.history) == 0 {
		return label
	}
	return label + " " + strings.ToLower(h.history[len(h.history)-1].String())
}

func (h *History) RedoLabel(label string) string {
	if len(h.future) == 0 {
		return label
	}
	return label + " " + strings.ToLower(h.future[len(h.future)-1].String())
}
