package composite

import (
	"fmt"

	"github.com/manifold/taskcoach/pkg/observer"
)

// ObservableNode is a Node that sends an event whenever children are added
// or removed. The event source is the bound composite.
type ObservableNode struct {
	Node

	pub       *observer.Publisher
	namespace string
}

// NewObservable returns a standalone observable node. A nil pub means the
// default publisher.
func NewObservable(pub *observer.Publisher, namespace string) *ObservableNode {
	n := &ObservableNode{}
	n.Init(n, pub, namespace)
	return n
}

// Init binds the node to self. Types that embed ObservableNode call it on
// construction.
func (n *ObservableNode) Init(self Composite, pub *observer.Publisher, namespace string) {
	n.Bind(self)
	n.pub = observer.Or(pub)
	n.namespace = namespace
}

func (n *ObservableNode) Publisher() *observer.Publisher {
	return observer.Or(n.pub)
}

func (n *ObservableNode) AddChildEventType() observer.EventType {
	return AddChildEventType(n.namespace)
}

func (n *ObservableNode) RemoveChildEventType() observer.EventType {
	return RemoveChildEventType(n.namespace)
}

// AddChildEventType is the child add event type of composites created
// with namespace.
func AddChildEventType(namespace string) observer.EventType {
	return observer.EventType(fmt.Sprintf("composite(%s).child.add", namespace))
}

func RemoveChildEventType(namespace string) observer.EventType {
	return observer.EventType(fmt.Sprintf("composite(%s).child.remove", namespace))
}

func (n *ObservableNode) ModificationEventTypes() []observer.EventType {
	return []observer.EventType{n.AddChildEventType(), n.RemoveChildEventType()}
}

// NewChild returns a new observable node in the same namespace, added to
// n's children with a child add event.
func (n *ObservableNode) NewChild() *ObservableNode {
	child := NewObservable(n.pub, n.namespace)
	n.AddChildWith(nil, child)
	return child
}

func (n *ObservableNode) AddChild(child Composite) {
	n.AddChildWith(nil, child)
}

func (n *ObservableNode) AddChildWith(ev *observer.Event, child Composite) {
	ev, done := observer.Begin(n.Publisher(), ev)
	defer done()
	n.Node.AddChild(child)
	ev.AddSourceOfType(n.AddChildEventType(), n.this(), child)
}

func (n *ObservableNode) RemoveChild(child Composite) error {
	return n.RemoveChildWith(nil, child)
}

func (n *ObservableNode) RemoveChildWith(ev *observer.Event, child Composite) error {
	ev, done := observer.Begin(n.Publisher(), ev)
	defer done()
	if err := n.Node.RemoveChild(child); err != nil {
		return err
	}
	ev.AddSourceOfType(n.RemoveChildEventType(), n.this(), child)
	return nil
}

func (n *ObservableNode) SetState(st State) {
	n.SetStateWith(nil, st)
}

// SetStateWith restores st and announces the children that disappeared in
// one remove event and the ones that appeared in one add event.
func (n *ObservableNode) SetStateWith(ev *observer.Event, st State) {
	ev, done := observer.Begin(n.Publisher(), ev)
	defer done()
	old := n.Node.Children()
	n.Node.SetState(st)
	current := n.Node.Children()

	var removed, added []interface{}
	for _, child := range old {
		if !containsComposite(current, child) {
			removed = append(removed, child)
		}
	}
	for _, child := range current {
		if !containsComposite(old, child) {
			added = append(added, child)
		}
	}
	if len(removed) > 0 {
		ev.AddSourceOfType(n.RemoveChildEventType(), n.this(), removed...)
	}
	if len(added) > 0 {
		ev.AddSourceOfType(n.AddChildEventType(), n.this(), added...)
	}
}

// Copy copies the node and its children. The copy sends events through the
// same publisher under the same namespace.
func (n *ObservableNode) Copy() Composite {
	cp := NewObservable(n.pub, n.namespace)
	cp.SetParent(n.Parent())
	for _, child := range n.Node.Children() {
		cp.Node.AddChild(CopyOf(child))
	}
	return cp
}

type childEventer interface {
	AddChildWith(ev *observer.Event, child Composite)
	RemoveChildWith(ev *observer.Event, child Composite) error
}

func containsComposite(list []Composite, c Composite) bool {
	for _, existing := range list {
		if existing == c {
			return true
		}
	}
	return false
}
