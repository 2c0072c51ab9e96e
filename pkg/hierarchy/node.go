// Package hierarchy models the tree of simulated objects that own statistics.
//
// Nodes are created through an Arena, which hands out sequential ids. Two nodes
// are equal when their paths are equal, regardless of identity, and they are
// ordered by depth rather than lexically.
package hierarchy

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/simstats/internal/constants"
	"github.com/hyp3rd/simstats/internal/sentinel"
)

// Node is one simulated object in the stats tree.
type Node struct {
	name     string
	path     string
	id       int
	children []*Node
	sealed   bool // sealed nodes refuse children
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Path returns the dot-joined path of the node.
func (n *Node) Path() string { return n.path }

// ID returns the ordinal assigned by the arena at construction.
func (n *Node) ID() int { return n.id }

// Children returns the live, ordered list of children.
func (n *Node) Children() []*Node { return n.children }

// Sealed reports whether the node refuses children.
func (n *Node) Sealed() bool { return n.sealed }

// Key returns the canonical owner key of the node.
// Owner-keyed maps use it so that equal nodes share an entry.
func (n *Node) Key() string { return n.path }

// Fingerprint returns a 64-bit hash of the path.
func (n *Node) Fingerprint() uint64 { return xxhash.Sum64String(n.path) }

// Depth returns the number of path segments.
func (n *Node) Depth() int {
	return len(strings.Split(n.path, constants.PathSeparator))
}

// AddChild appends child. No duplicate check is done.
func (n *Node) AddChild(child *Node) error {
	if n.sealed {
		return ewrap.Wrapf(sentinel.ErrChildOnAggregator, "adding %q to %q", child.Path(), n.path)
	}

	n.children = append(n.children, child)

	return nil
}

// Equal reports whether n and other have the same path.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}

	return n.path == other.path
}

// Less reports whether n is shallower than other.
func (n *Node) Less(other *Node) bool { return n.Depth() < other.Depth() }

// Greater reports whether n is deeper than other.
func (n *Node) Greater(other *Node) bool { return n.Depth() > other.Depth() }

// String returns a readable form of the node.
func (n *Node) String() string {
	if n.sealed {
		return fmt.Sprintf("AggregatorNode(name: %s, path: %s)", n.name, n.path)
	}

	return fmt.Sprintf("Node(name: %s, path: %s, children: %d)", n.name, n.path, len(n.children))
}

// Compare orders nodes by depth. It is suitable for slices.SortFunc.
func Compare(a, b *Node) int {
	return a.Depth() - b.Depth()
}

// JoinPath joins a parent path and a child name.
func JoinPath(parent, name string) string {
	return strings.TrimLeft(parent+constants.PathSeparator+name, constants.PathSeparator)
}
