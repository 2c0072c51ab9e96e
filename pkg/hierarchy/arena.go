package hierarchy

import (
	"strings"
	"sync"

	"github.com/hyp3rd/simstats/internal/constants"
)

// Arena creates nodes and assigns them sequential ids.
// It replaces a process-wide counter: each tree construction context owns one,
// and tests can start from a fresh arena or Reset an existing one.
type Arena struct {
	mu   sync.Mutex
	next int
}

// NewArena returns an arena whose first node gets id 0.
func NewArena() *Arena {
	return &Arena{}
}

// NewNode creates a node. Leading separators are stripped from path.
func (a *Arena) NewNode(name, path string) *Node {
	return &Node{
		name: name,
		path: strings.TrimLeft(path, constants.PathSeparator),
		id:   a.nextID(),
	}
}

// NewSealedNode creates a node that refuses children.
func (a *Arena) NewSealedNode(name, path string) *Node {
	n := a.NewNode(name, path)
	n.sealed = true

	return n
}

// NewChild creates a node under parent and attaches it.
func (a *Arena) NewChild(parent *Node, name string) (*Node, error) {
	child := a.NewNode(name, JoinPath(parent.Path(), name))

	err := parent.AddChild(child)
	if err != nil {
		return nil, err
	}

	return child, nil
}

// Allocated returns the number of ids handed out so far.
func (a *Arena) Allocated() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.next
}

// Reset restarts id allocation at 0.
func (a *Arena) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.next = 0
}

func (a *Arena) nextID() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.next
	a.next++

	return id
}
