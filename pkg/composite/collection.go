package composite

import (
	"github.com/manifold/taskcoach/pkg/collection"
	"github.com/manifold/taskcoach/pkg/observer"
)

// members is the part of a flat composite collection the helpers below
// need.
type members interface {
	Items() []Composite
	Contains(c Composite) bool
}

// expand returns composites followed by all their descendants, without
// duplicates.
func expand(composites []Composite) []Composite {
	var result []Composite
	add := func(c Composite) {
		if !containsComposite(result, c) {
			result = append(result, c)
		}
	}
	for _, c := range composites {
		add(c)
	}
	for _, c := range composites {
		for _, d := range c.Descendants() {
			add(d)
		}
	}
	return result
}

// linkToParents re-attaches composites to parents that are members but no
// longer list them as children.
func linkToParents(m members, ev *observer.Event, composites []Composite) {
	for _, c := range composites {
		parent := c.Parent()
		if parent == nil || !m.Contains(parent) || parent.CompositeNode().HasChild(c) {
			continue
		}
		if eventer, ok := parent.(childEventer); ok {
			eventer.AddChildWith(ev, c)
		} else {
			parent.AddChild(c)
		}
	}
}

// unlinkFromParents detaches composites from the parents that list them.
// The composites keep their parent pointer.
func unlinkFromParents(ev *observer.Event, composites []Composite) {
	for _, c := range composites {
		parent := c.Parent()
		if parent == nil || !parent.CompositeNode().HasChild(c) {
			continue
		}
		if eventer, ok := parent.(childEventer); ok {
			eventer.RemoveChildWith(ev, c)
		} else {
			parent.RemoveChild(c)
		}
	}
}

func rootItems(m members) []Composite {
	var roots []Composite
	for _, c := range m.Items() {
		if parent := c.Parent(); parent == nil || !m.Contains(parent) {
			roots = append(roots, c)
		}
	}
	return roots
}

func allItemsSorted(m members) []Composite {
	var result []Composite
	for _, root := range rootItems(m) {
		result = append(result, root)
		for _, d := range root.Descendants() {
			if m.Contains(d) {
				result = append(result, d)
			}
		}
	}
	return result
}

// CompositeList is a flat, ordered collection of composites in which adding
// or removing a composite also adds or removes its whole subtree.
type CompositeList struct {
	*collection.ObservableList[Composite]
}

func NewCompositeList(pub *observer.Publisher, namespace string, composites ...Composite) *CompositeList {
	l := &CompositeList{
		ObservableList: collection.NewObservableList[Composite](pub, namespace),
	}
	l.Bind(l)
	l.Extend(composites...)
	return l
}

func (l *CompositeList) Append(c Composite) { l.ExtendWith(nil, c) }

func (l *CompositeList) AppendWith(ev *observer.Event, c Composite) { l.ExtendWith(ev, c) }

func (l *CompositeList) Extend(composites ...Composite) { l.ExtendWith(nil, composites...) }

// ExtendWith adds composites and their descendants, skipping members, and
// links each composite back to its parent when the parent is a member.
func (l *CompositeList) ExtendWith(ev *observer.Event, composites ...Composite) {
	if len(composites) == 0 {
		return
	}
	ev, done := observer.Begin(l.Publisher(), ev)
	defer done()
	var fresh []Composite
	for _, c := range expand(composites) {
		if !l.Contains(c) {
			fresh = append(fresh, c)
		}
	}
	l.ObservableList.ExtendWith(ev, fresh...)
	linkToParents(l, ev, composites)
}

// Remove removes c and its subtree. Removing a non-member does nothing.
func (l *CompositeList) Remove(c Composite) error { return l.RemoveWith(nil, c) }

func (l *CompositeList) RemoveWith(ev *observer.Event, c Composite) error {
	if !l.Contains(c) {
		return nil
	}
	return l.RemoveItemsWith(ev, c)
}

func (l *CompositeList) RemoveItems(composites ...Composite) error {
	return l.RemoveItemsWith(nil, composites...)
}

// RemoveItemsWith removes composites and those of their descendants that
// are members, then unlinks each composite from its parent.
func (l *CompositeList) RemoveItemsWith(ev *observer.Event, composites ...Composite) error {
	if len(composites) == 0 {
		return nil
	}
	ev, done := observer.Begin(l.Publisher(), ev)
	defer done()
	var present []Composite
	for _, c := range expand(composites) {
		if l.Contains(c) {
			present = append(present, c)
		}
	}
	if err := l.ObservableList.RemoveItemsWith(ev, present...); err != nil {
		return err
	}
	unlinkFromParents(ev, composites)
	return nil
}

func (l *CompositeList) Clear() { l.ClearWith(nil) }

func (l *CompositeList) ClearWith(ev *observer.Event) {
	l.RemoveItemsWith(ev, l.Items()...)
}

// RootItems returns the members whose parent is not a member.
func (l *CompositeList) RootItems() []Composite {
	return rootItems(l)
}

// AllItemsSorted returns members with every parent before its children.
func (l *CompositeList) AllItemsSorted() []Composite {
	return allItemsSorted(l)
}

// CompositeSet is the unordered counterpart of CompositeList.
type CompositeSet struct {
	*collection.ObservableSet[Composite]
}

func NewCompositeSet(pub *observer.Publisher, namespace string, composites ...Composite) *CompositeSet {
	s := &CompositeSet{
		ObservableSet: collection.NewObservableSet[Composite](pub, namespace),
	}
	s.Bind(s)
	s.Extend(composites...)
	return s
}

func (s *CompositeSet) Append(c Composite) { s.ExtendWith(nil, c) }

func (s *CompositeSet) AppendWith(ev *observer.Event, c Composite) { s.ExtendWith(ev, c) }

func (s *CompositeSet) Extend(composites ...Composite) { s.ExtendWith(nil, composites...) }

func (s *CompositeSet) ExtendWith(ev *observer.Event, composites ...Composite) {
	if len(composites) == 0 {
		return
	}
	ev, done := observer.Begin(s.Publisher(), ev)
	defer done()
	s.ObservableSet.ExtendWith(ev, expand(composites)...)
	linkToParents(s, ev, composites)
}

func (s *CompositeSet) Remove(c Composite) error { return s.RemoveWith(nil, c) }

func (s *CompositeSet) RemoveWith(ev *observer.Event, c Composite) error {
	if !s.Contains(c) {
		return nil
	}
	return s.RemoveItemsWith(ev, c)
}

func (s *CompositeSet) RemoveItems(composites ...Composite) error {
	return s.RemoveItemsWith(nil, composites...)
}

func (s *CompositeSet) RemoveItemsWith(ev *observer.Event, composites ...Composite) error {
	if len(composites) == 0 {
		return nil
	}
	ev, done := observer.Begin(s.Publisher(), ev)
	defer done()
	if err := s.ObservableSet.RemoveItemsWith(ev, expand(composites)...); err != nil {
		return err
	}
	unlinkFromParents(ev, composites)
	return nil
}

func (s *CompositeSet) Clear() { s.ClearWith(nil) }

func (s *CompositeSet) ClearWith(ev *observer.Event) {
	s.RemoveItemsWith(ev, s.Items()...)
}

func (s *CompositeSet) RootItems() []Composite {
	return rootItems(s)
}

func (s *CompositeSet) AllItemsSorted() []Composite {
	return allItemsSorted(s)
}
