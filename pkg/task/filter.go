package task

import (
	"strings"

	"github.com/manifold/taskcoach/pkg/collection"
	"github.com/manifold/taskcoach/pkg/composite"
	"github.com/manifold/taskcoach/pkg/observer"
)

// Filter is a view of the tasks that a predicate accepts. It re-evaluates a
// task whenever the task's subject or completion changes.
type Filter struct {
	*collection.Decorator[composite.Composite]

	accept func(*Task) bool
}

// ActiveOnly accepts tasks that are not completed.
func ActiveOnly(t *Task) bool {
	return !t.Completed()
}

// SubjectContains accepts tasks whose subject contains s, ignoring case.
func SubjectContains(s string) func(*Task) bool {
	s = strings.ToLower(s)
	return func(t *Task) bool {
		return strings.Contains(strings.ToLower(t.Subject()), s)
	}
}

func NewFilter(observed collection.Observable[composite.Composite], accept func(*Task) bool) *Filter {
	f := &Filter{accept: accept}
	f.Decorator = collection.NewListDecorator[composite.Composite](observed, "task.Filter", collection.Hooks[composite.Composite]{
		OnAddItem: f.onAddItem,
	})
	for _, et := range AttributeEventTypes() {
		f.RegisterObserver("onTaskChanged", f.onTaskChanged, et, nil)
	}
	return f
}

func (f *Filter) onAddItem(d *collection.Decorator[composite.Composite], ev *observer.Event, items []composite.Composite) {
	var accepted []composite.Composite
	for _, t := range Tasks(items) {
		if f.accept(t) {
			accepted = append(accepted, t)
		}
	}
	d.ExtendSelf(nil, accepted...)
}

func (f *Filter) onTaskChanged(ev *observer.Event) {
	for _, source := range ev.Sources() {
		t, ok := source.(*Task)
		if !ok || !f.Observed(false).Contains(t) {
			continue
		}
		switch {
		case f.accept(t) && !f.Contains(t):
			f.ExtendSelf(nil, t)
		case !f.accept(t) && f.Contains(t):
			f.RemoveItemsFromSelf(nil, t)
		}
	}
}

// Tasks returns the accepted tasks.
func (f *Filter) Tasks() []*Task {
	return Tasks(f.Items())
}
