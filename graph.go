package workflow

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// Snapshot is an immutable view of the graph at one point in time.
// Accessors return copies, so callers may keep or modify what they get back.
type Snapshot struct {
	nodes []Node
	edges []Edge
}

var emptySnapshot = &Snapshot{}

// NewSnapshot builds a snapshot from copies of nodes and edges.
func NewSnapshot(nodes []Node, edges []Edge) *Snapshot {
	return &Snapshot{nodes: slices.Clone(nodes), edges: slices.Clone(edges)}
}

// Nodes returns the nodes in insertion order.
func (s *Snapshot) Nodes() []Node { return slices.Clone(s.nodes) }

// Edges returns the edges in insertion order.
func (s *Snapshot) Edges() []Edge { return slices.Clone(s.edges) }

// Node returns the node with the given id.
func (s *Snapshot) Node(id string) (Node, bool) {
	if i := s.nodeIndex(id); i >= 0 {
		return s.nodes[i], true
	}
	return Node{}, false
}

// Edge returns the edge with the given id.
func (s *Snapshot) Edge(id string) (Edge, bool) {
	if i := s.edgeIndex(id); i >= 0 {
		return s.edges[i], true
	}
	return Edge{}, false
}

// NodeCount returns the number of nodes.
func (s *Snapshot) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges.
func (s *Snapshot) EdgeCount() int { return len(s.edges) }

// Empty reports whether the snapshot has neither nodes nor edges.
func (s *Snapshot) Empty() bool { return len(s.nodes) == 0 && len(s.edges) == 0 }

func (s *Snapshot) nodeIndex(id string) int {
	return slices.IndexFunc(s.nodes, func(n Node) bool { return n.ID == id })
}

func (s *Snapshot) edgeIndex(id string) int {
	return slices.IndexFunc(s.edges, func(e Edge) bool { return e.ID == id })
}

// Graph owns the canonical node and edge sequences.
//
// Every mutation publishes a new Snapshot; published snapshots are never
// modified, so readers need no locking. Writers are serialized by mu.
// Graph performs no integrity checking; see Check.
type Graph struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	g := &Graph{}
	g.current.Store(emptySnapshot)
	return g
}

// Snapshot returns the current snapshot.
func (g *Graph) Snapshot() *Snapshot {
	if s := g.current.Load(); s != nil {
		return s
	}
	return emptySnapshot
}

// AddNode appends n.
func (g *Graph) AddNode(n Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur := g.Snapshot()
	g.current.Store(&Snapshot{nodes: append(slices.Clip(cur.nodes), n), edges: cur.edges})
}

// AddEdge appends e.
func (g *Graph) AddEdge(e Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur := g.Snapshot()
	g.current.Store(&Snapshot{nodes: cur.nodes, edges: append(slices.Clip(cur.edges), e)})
}

// ReplaceAll swaps in copies of nodes and edges in one step.
func (g *Graph) ReplaceAll(nodes []Node, edges []Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current.Store(NewSnapshot(nodes, edges))
}

// Clear removes every node and edge.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current.Store(emptySnapshot)
}

// MoveNode sets the position of node id.
func (g *Graph) MoveNode(id string, pos Position) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur := g.Snapshot()
	i := cur.nodeIndex(id)
	if i < 0 {
		return fmt.Errorf("move %s: %w", id, ErrNodeNotFound)
	}
	nodes := slices.Clone(cur.nodes)
	nodes[i].Position = pos
	g.current.Store(&Snapshot{nodes: nodes, edges: cur.edges})
	return nil
}

// RemoveNode deletes node id together with every edge touching it.
func (g *Graph) RemoveNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur := g.Snapshot()
	i := cur.nodeIndex(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, ErrNodeNotFound)
	}
	nodes := slices.Delete(slices.Clone(cur.nodes), i, i+1)
	edges := slices.DeleteFunc(slices.Clone(cur.edges), func(e Edge) bool {
		return e.Source == id || e.Target == id
	})
	g.current.Store(&Snapshot{nodes: nodes, edges: edges})
	return nil
}

// RemoveEdge deletes edge id.
func (g *Graph) RemoveEdge(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur := g.Snapshot()
	i := cur.edgeIndex(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, ErrEdgeNotFound)
	}
	edges := slices.Delete(slices.Clone(cur.edges), i, i+1)
	g.current.Store(&Snapshot{nodes: cur.nodes, edges: edges})
	return nil
}
