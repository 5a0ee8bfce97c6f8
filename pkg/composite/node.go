package composite

import "fmt"

// Node implements Composite. The parent link does not own the parent;
// children are owned.
type Node struct {
	self     Composite
	// parent is a plain back-reference; it is never owned by the child
	parent   Composite
	children []Composite
}

// New returns a standalone node with the given children.
func New(children ...Composite) *Node {
	n := &Node{}
	for _, child := range children {
		n.AddChild(child)
	}
	return n
}

// Bind makes self the value children see as their parent. Types that
// embed Node call it once on construction.
func (n *Node) Bind(self Composite) {
	n.self = self
}

func (n *Node) this() Composite {
	if n.self == nil {
		return n
	}
	return n.self
}

func (n *Node) CompositeNode() *Node {
	return n
}

func (n *Node) Parent() Composite {
	return n.parent
}

func (n *Node) SetParent(parent Composite) {
	n.parent = parent
}

func (n *Node) Children() []Composite {
	ch := make([]Composite, len(n.children))
	copy(ch, n.children)
	return ch
}

func (n *Node) Descendants() []Composite {
	var result []Composite
	for _, child := range n.children {
		result = append(result, child)
		result = append(result, child.Descendants()...)
	}
	return result
}

// Ancestors returns the parent chain, root first.
func (n *Node) Ancestors() []Composite {
	if n.parent == nil {
		return nil
	}
	return append(n.parent.Ancestors(), n.parent)
}

// Family is ancestors, the composite itself and its descendants.
func (n *Node) Family() []Composite {
	family := append(n.Ancestors(), n.this())
	return append(family, n.Descendants()...)
}

// Siblings returns the other children of the parent, plus their
// descendants when recursive is set.
func (n *Node) Siblings(recursive bool) []Composite {
	if n.parent == nil {
		return nil
	}
	var result []Composite
	for _, child := range n.parent.Children() {
		if child != n.this() {
			result = append(result, child)
		}
	}
	if recursive {
		for _, sibling := range result[:len(result):len(result)] {
			result = append(result, sibling.Descendants()...)
		}
	}
	return result
}

func (n *Node) AddChild(child Composite) {
	n.children = append(n.children, child)
	child.SetParent(n.this())
}

// RemoveChild unlinks child from the children but leaves child's parent
// pointer alone, so the link can be restored later.
func (n *Node) RemoveChild(child Composite) error {
	idx := n.childIndex(child)
	if idx < 0 {
		return fmt.Errorf("%w: %v", ErrNotChild, child)
	}
	n.children = append(n.children[:idx], n.children[idx+1:]...)
	return nil
}

// HasChild reports whether child is one of the direct children.
func (n *Node) HasChild(child Composite) bool {
	return n.childIndex(child) >= 0
}

func (n *Node) childIndex(child Composite) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// NewChild returns a new node added to n's children.
func (n *Node) NewChild() *Node {
	child := &Node{}
	n.this().AddChild(child)
	return child
}

// Copy returns a node with the same parent and copies of the children.
func (n *Node) Copy() Composite {
	cp := &Node{}
	cp.parent = n.parent
	for _, child := range n.children {
		cp.AddChild(CopyOf(child))
	}
	return cp
}

// CopyOf copies c with its own Copy method when it has one.
func CopyOf(c Composite) Composite {
	if copier, ok := c.(Copier); ok {
		return copier.Copy()
	}
	return c.CompositeNode().Copy()
}

func (n *Node) State() State {
	return State{Parent: n.parent, Children: n.Children()}
}

// SetState restores links from st as they were; children are not touched.
func (n *Node) SetState(st State) {
	n.parent = st.Parent
	n.children = make([]Composite, len(st.Children))
	copy(n.children, st.Children)
}
