// Package network reconstructs the downstream distribution tree of a factory
// and computes the volume lost to leaks inside it.
//
// Discovery works over an unordered stream of edge rows. Because a child's
// row may be read before its parent is known, the stream is rescanned until a
// pass attaches nothing new or the pass budget runs out:
//
//	Seed -> Scanning -> Converged
//	                 -> Aborted   (pass cap reached, partial tree kept)
//
// Loss propagation splits the volume entering a node evenly across its
// children and charges each edge its leak percentage before recursing.
package network

// Node is one point of a distribution network: the factory itself, a storage
// tank, a junction, a service connection or a customer.
type Node struct {
	ID       string
	Children []Edge
}

// Edge links a parent to a child it exclusively owns.
type Edge struct {
	Node *Node

	// LeakPercent is the share of the carried volume lost on this edge, 0-100.
	LeakPercent float64
}

// AddChild appends a new child and returns it.
func (n *Node) AddChild(id string, leakPercent float64) *Node {
	child := &Node{ID: id}
	n.Children = append(n.Children, Edge{Node: child, LeakPercent: leakPercent})
	return child
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Shape summarises the size of a tree.
type Shape struct {
	Nodes int
	Edges int
	Depth int
}

// Measure walks the tree rooted at root. A lone root has depth 0.
func Measure(root *Node) Shape {
	if root == nil {
		return Shape{}
	}
	s := Shape{Nodes: 1}
	for _, e := range root.Children {
		c := Measure(e.Node)
		s.Nodes += c.Nodes
		s.Edges += c.Edges + 1
		s.Depth = max(s.Depth, c.Depth+1)
	}
	return s
}

// Release tears the tree down bottom-up, dropping every child reference.
func Release(root *Node) {
	if root == nil {
		return
	}
	for _, e := range root.Children {
		Release(e.Node)
	}
	clear(root.Children)
	root.Children = nil
}
