package scene

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNodeRejected = errors.New("scene: node rejected")
	ErrDuplicateID  = errors.New("scene: duplicate node id")
)

// Query is the read surface used to locate contributing nodes.
type Query interface {
	FindNodeByType(k Kind) Node
	GetNodesByType(k Kind) []Node
}

// nodeList answers queries over a snapshot or a locked node slice.
type nodeList []Node

func (l nodeList) FindNodeByType(k Kind) Node {
	for _, n := range l {
		if n.Kind() == k {
			return n
		}
	}
	return nil
}

func (l nodeList) GetNodesByType(k Kind) []Node {
	var out []Node
	for _, n := range l {
		if n.Kind() == k {
			out = append(out, n)
		}
	}
	return out
}

// Graph is an ordered set of nodes plus the editor selection.
type Graph struct {
	mu       sync.RWMutex
	nodes    []Node
	selected Node
}

func NewGraph() *Graph {
	return &Graph{}
}

// Add appends n. Nodes implementing AddChecker may refuse; the check and the
// append happen under one lock.
func (g *Graph) Add(n Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := n.(AddChecker); ok && !c.CanAddNode(nodeList(g.nodes)) {
		return fmt.Errorf("%w: %s %q", ErrNodeRejected, n.Kind(), n.ID())
	}
	for _, e := range g.nodes {
		if e.ID() == n.ID() {
			return fmt.Errorf("%w: %q", ErrDuplicateID, n.ID())
		}
	}
	g.nodes = append(g.nodes, n)
	return nil
}

// Remove drops n, deselecting it first when selected.
func (g *Graph) Remove(n Node) {
	if g.Selected() == n {
		g.Select(nil)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, e := range g.nodes {
		if e == n {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			return
		}
	}
}

func (g *Graph) FindNodeByType(k Kind) Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return nodeList(g.nodes).FindNodeByType(k)
}

func (g *Graph) GetNodesByType(k Kind) []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return nodeList(g.nodes).GetNodesByType(k)
}

func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Node(nil), g.nodes...)
}

func (g *Graph) Selected() Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.selected
}

func (g *Graph) IsSelected(n Node) bool {
	return n != nil && g.Selected() == n
}

// Select makes n the selection (nil clears it) and notifies the previous
// and new selection. Notifications run without the graph lock held.
func (g *Graph) Select(n Node) {
	g.mu.Lock()
	prev := g.selected
	g.selected = n
	g.mu.Unlock()
	if prev == n {
		return
	}
	if s, ok := prev.(Selectable); ok {
		s.OnDeselect()
	}
	if s, ok := n.(Selectable); ok {
		s.OnSelect()
	}
}
