package estree

// Visitor receives nodes during a Walk traversal. Enter is called before a
// node's children are visited, Exit after. The parent of the root is nil.
type Visitor interface {
	Enter(n *Node, parent *Node)
	Exit(n *Node, parent *Node)
}

// Walk performs a depth-first traversal of the tree rooted at n, calling
// v.Enter and v.Exit around each node's children. Children are visited in
// source order.
func Walk(n *Node, v Visitor) {
	walk(n, nil, v)
}

func walk(n *Node, parent *Node, v Visitor) {
	if n == nil {
		return
	}
	v.Enter(n, parent)
	eachChild(n, func(child *Node) {
		walk(child, n, v)
	})
	v.Exit(n, parent)
}

// Inspect traverses the tree in pre-order, calling fn for each node. If fn
// returns false the node's children are skipped.
func Inspect(n *Node, fn func(n *Node, parent *Node) bool) {
	inspect(n, nil, fn)
}

func inspect(n *Node, parent *Node, fn func(n *Node, parent *Node) bool) {
	if n == nil {
		return
	}
	if !fn(n, parent) {
		return
	}
	eachChild(n, func(child *Node) {
		inspect(child, n, fn)
	})
}

// eachChild calls fn for every non-nil child of n in source order. The
// pointer fields are laid out so that a fixed visiting order matches the
// order the constructs appear in source for every Kind.
func eachChild(n *Node, fn func(*Node)) {
	if n.Left != nil {
		fn(n.Left)
	}
	if n.Object != nil {
		fn(n.Object)
	}
	if n.Callee != nil {
		fn(n.Callee)
	}
	if n.Key != nil {
		fn(n.Key)
	}
	if n.Property != nil {
		fn(n.Property)
	}
	if n.Right != nil {
		fn(n.Right)
	}
	if n.Val != nil {
		fn(n.Val)
	}
	if n.Argument != nil {
		fn(n.Argument)
	}
	for _, p := range n.Params {
		if p != nil {
			fn(p)
		}
	}
	for _, a := range n.Arguments {
		if a != nil {
			fn(a)
		}
	}
	for _, e := range n.Elements {
		if e != nil {
			fn(e)
		}
	}
	for _, p := range n.Properties {
		if p != nil {
			fn(p)
		}
	}
	if n.Body != nil {
		fn(n.Body)
	}
	for _, c := range n.Children {
		if c != nil {
			fn(c)
		}
	}
}

// enterFunc adapts a function to the Visitor interface for callers that
// only need Enter.
type enterFunc func(n *Node, parent *Node)

func (f enterFunc) Enter(n *Node, parent *Node) { f(n, parent) }
func (f enterFunc) Exit(n *Node, parent *Node)  {}

// VisitEnter walks the tree calling fn on entry to every node.
func VisitEnter(root *Node, fn func(n *Node, parent *Node)) {
	Walk(root, enterFunc(fn))
}
