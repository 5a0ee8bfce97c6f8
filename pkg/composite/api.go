package composite

import "errors"

var ErrNotChild = errors.New("composite: not a child of this composite")

// Composite is a node in a tree of composites. Concrete types embed Node
// (or ObservableNode) and bind it to themselves so that parent and child
// links point at the outer value.
type Composite interface {
	Parent() Composite
	SetParent(parent Composite)
	Children() []Composite
	// Descendants returns children, grandchildren and so on, depth first.
	Descendants() []Composite
	Ancestors() []Composite
	AddChild(child Composite)
	RemoveChild(child Composite) error
	CompositeNode() *Node
}

// Copier is implemented by composites that know how to copy themselves.
type Copier interface {
	Copy() Composite
}

// State is a snapshot of a composite's links.
type State struct {
	Parent   Composite
	Children []Composite
}
