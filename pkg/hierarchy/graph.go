package hierarchy

// Edge connects a parent id to a child id.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Walk visits root and its descendants depth-first, parents before children.
// It stops early when visit returns false.
func Walk(root *Node, visit func(*Node) bool) bool {
	if !visit(root) {
		return false
	}

	for _, child := range root.children {
		if !Walk(child, visit) {
			return false
		}
	}

	return true
}

// Graph flattens the tree under root into vertex ids and parent-child edges.
// The edges of a node are listed before the edges of its descendants.
func Graph(root *Node) (vertices []int, edges []Edge) {
	vertices = append(vertices, root.id)

	for _, child := range root.children {
		edges = append(edges, Edge{From: root.id, To: child.id})
	}

	for _, child := range root.children {
		v, e := Graph(child)
		vertices = append(vertices, v...)
		edges = append(edges, e...)
	}

	return vertices, edges
}

// Find returns the first node under root whose path equals path.
func Find(root *Node, path string) (*Node, bool) {
	var found *Node

	Walk(root, func(n *Node) bool {
		if n.path == path {
			found = n

			return false
		}

		return true
	})

	return found, found != nil
}
