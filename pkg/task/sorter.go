package task

import (
	"fmt"
	"sort"
	"strings"

	"github.com/manifold/taskcoach/pkg/collection"
	"github.com/manifold/taskcoach/pkg/composite"
	"github.com/manifold/taskcoach/pkg/observer"
)

// Less orders two tasks.
type Less func(a, b *Task) bool

// SortKeys are the keys a Sorter understands.
var SortKeys = map[string]Less{
	"subject": func(a, b *Task) bool {
		return strings.ToLower(a.Subject()) < strings.ToLower(b.Subject())
	},
	"completed": func(a, b *Task) bool {
		return !a.Completed() && b.Completed()
	},
	"id": func(a, b *Task) bool {
		return a.ID() < b.ID()
	},
}

// Sorter keeps an ordering of the tasks of the observed collection. While
// frozen it stops re-sorting; thawing sorts once.
type Sorter struct {
	*collection.Decorator[composite.Composite]

	less      Less
	ascending bool
	sorted    []*Task
}

func NewSorter(observed collection.Observable[composite.Composite], key string, ascending bool) (*Sorter, error) {
	less, ok := SortKeys[key]
	if !ok {
		return nil, fmt.Errorf("task: unknown sort key %q", key)
	}
	s := &Sorter{less: less, ascending: ascending}
	s.Decorator = collection.NewListDecorator[composite.Composite](observed, "task.Sorter", collection.Hooks[composite.Composite]{
		OnAddItem: func(d *collection.Decorator[composite.Composite], ev *observer.Event, items []composite.Composite) {
			d.ExtendSelf(nil, items...)
			s.resort(d)
		},
		OnRemoveItem: func(d *collection.Decorator[composite.Composite], ev *observer.Event, items []composite.Composite) {
			d.RemoveItemsFromSelf(nil, items...)
			s.resort(d)
		},
		OnThaw: s.resort,
	})
	s.RegisterObserver("onTaskChanged", s.onTaskChanged, SubjectEventType, nil)
	s.RegisterObserver("onTaskChanged", s.onTaskChanged, CompletedEventType, nil)
	return s, nil
}

// SortBy switches the sort key.
func (s *Sorter) SortBy(key string, ascending bool) error {
	less, ok := SortKeys[key]
	if !ok {
		return fmt.Errorf("task: unknown sort key %q", key)
	}
	s.less = less
	s.ascending = ascending
	s.resort(s.Decorator)
	return nil
}

func (s *Sorter) onTaskChanged(ev *observer.Event) {
	for _, source := range ev.Sources() {
		if t, ok := source.(*Task); ok && s.Contains(t) {
			s.resort(s.Decorator)
			return
		}
	}
}

func (s *Sorter) resort(d *collection.Decorator[composite.Composite]) {
	if d.IsFrozen() {
		return
	}
	tasks := Tasks(d.Items())
	sort.SliceStable(tasks, func(i, j int) bool {
		if s.ascending {
			return s.less(tasks[i], tasks[j])
		}
		return s.less(tasks[j], tasks[i])
	})
	s.sorted = tasks
}

// Sorted returns the tasks in sort order as of the last sort.
func (s *Sorter) Sorted() []*Task {
	out := make([]*Task, len(s.sorted))
	copy(out, s.sorted)
	return out
}

// SortedTree returns root tasks in sort order, each followed by its
// descendants, siblings in sort order.
func (s *Sorter) SortedTree() []*Task {
	rank := make(map[*Task]int, len(s.sorted))
	for i, t := range s.sorted {
		rank[t] = i
	}
	var walk func(tasks []*Task) []*Task
	walk = func(tasks []*Task) []*Task {
		var present []*Task
		for _, t := range tasks {
			if _, ok := rank[t]; ok {
				present = append(present, t)
			}
		}
		sort.SliceStable(present, func(i, j int) bool {
			return rank[present[i]] < rank[present[j]]
		})
		var out []*Task
		for _, t := range present {
			out = append(out, t)
			out = append(out, walk(t.ChildTasks())...)
		}
		return out
	}
	var roots []*Task
	for _, t := range s.sorted {
		if parent := t.ParentTask(); parent == nil || !s.Contains(parent) {
			roots = append(roots, t)
		}
	}
	return walk(roots)
}
