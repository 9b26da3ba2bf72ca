package workflow

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// ClearPrompt is the question put to the Confirmer before clearing.
const ClearPrompt = "Clear the canvas? Unsaved changes will be lost."

// Editor is one editing session: a graph, the registry it resolves against,
// and the workflow name. Events are expected from a single writer; reads via
// Snapshot are safe from any goroutine.
type Editor struct {
	graph    *Graph
	registry Registry
	origin   DropOrigin
	ids      *IDGenerator
	logger   *log.Logger
	strict   *CheckOptions
	now      func() time.Time

	mu   sync.RWMutex
	name string
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithIDGenerator sets the id source. The default is shared process-wide.
func WithIDGenerator(g *IDGenerator) Option {
	return func(e *Editor) { e.ids = g }
}

// WithDropOrigin sets where the drawable surface starts. Without it drops
// are taken as already canvas-relative.
func WithDropOrigin(o DropOrigin) Option {
	return func(e *Editor) { e.origin = o }
}

// WithStrictConnections makes Connect reject links that fail Check under
// opts. By default every link is accepted.
func WithStrictConnections(opts CheckOptions) Option {
	return func(e *Editor) { e.strict = &opts }
}

// WithClock sets the clock used for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// NewEditor returns an editor with an empty graph named DefaultName. A nil
// reg is treated as an empty registry.
func NewEditor(reg Registry, opts ...Option) *Editor {
	if reg == nil {
		reg = NewMapRegistry()
	}
	e := &Editor{
		graph:    NewGraph(),
		registry: reg,
		origin:   FixedOrigin{},
		ids:      defaultIDs,
		logger:   log.Default(),
		now:      time.Now,
		name:     DefaultName,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the underlying graph store.
func (e *Editor) Graph() *Graph { return e.graph }

// Snapshot returns the current graph snapshot.
func (e *Editor) Snapshot() *Snapshot { return e.graph.Snapshot() }

// Name returns the workflow display name.
func (e *Editor) Name() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.name
}

// Rename sets the workflow display name. A blank name restores DefaultName.
func (e *Editor) Rename(name string) {
	if name == "" {
		name = DefaultName
	}
	e.mu.Lock()
	e.name = name
	e.mu.Unlock()
}

// Drop places a component at the pointer position of ev. Unknown keys leave
// the graph untouched; the returned error wraps ErrUnknownComponent.
func (e *Editor) Drop(ev DropEvent) (Node, error) {
	return e.DropAt(ev, e.origin.DropOrigin())
}

// DropAt is Drop with an explicit canvas origin.
func (e *Editor) DropAt(ev DropEvent, origin Position) (Node, error) {
	n, err := Place(e.registry, e.ids, ev, origin)
	if err != nil {
		e.logger.Warn("rejected drop", "key", ev.ComponentKey, "err", err)
		return Node{}, err
	}
	for {
		if _, taken := e.graph.Snapshot().Node(n.ID); !taken {
			break
		}
		n.ID = e.ids.NodeID(n.ComponentKey)
	}
	e.graph.AddNode(n)
	e.logger.Debug("placed node", "id", n.ID, "x", n.Position.X, "y", n.Position.Y)
	return n, nil
}

// Connect adds an edge for c.
func (e *Editor) Connect(c Connection) (Edge, error) {
	if e.strict != nil {
		if err := CanConnect(e.graph.Snapshot(), c, *e.strict); err != nil {
			e.logger.Warn("rejected connection", "source", c.Source, "target", c.Target, "err", err)
			return Edge{}, err
		}
	}
	edge := Link(e.ids, c)
	e.graph.AddEdge(edge)
	e.logger.Debug("connected", "id", edge.ID, "source", edge.Source, "target", edge.Target)
	return edge, nil
}

// Move updates the canvas position of a node.
func (e *Editor) Move(id string, pos Position) error {
	return e.graph.MoveNode(id, pos)
}

// DeleteNode removes a node and its edges.
func (e *Editor) DeleteNode(id string) error {
	return e.graph.RemoveNode(id)
}

// DeleteEdge removes an edge.
func (e *Editor) DeleteEdge(id string) error {
	return e.graph.RemoveEdge(id)
}

// Export returns the current workflow as a document.
func (e *Editor) Export() *Document {
	return Export(e.Name(), e.graph.Snapshot(), e.now())
}

// ImportResult summarizes a successful import.
type ImportResult struct {
	Name       string   `json:"name"`
	Nodes      int      `json:"nodes"`
	Edges      int      `json:"edges"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// Import replaces the whole workflow with the document in data. On a parse
// or shape failure the graph and name are left as they were and the error
// wraps ErrMalformedDocument.
func (e *Editor) Import(data []byte) (ImportResult, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		e.logger.Error("import failed", "err", err)
		return ImportResult{}, err
	}
	return e.Load(doc), nil
}

// ImportFrom reads a document from r and imports it.
func (e *Editor) ImportFrom(r io.Reader) (ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read document: %w", err)
	}
	return e.Import(data)
}

// Load replaces the workflow with an already parsed document.
func (e *Editor) Load(doc *Document) ImportResult {
	nodes, edges, name := Restore(doc, e.registry)

	res := ImportResult{Name: name, Nodes: len(nodes), Edges: len(edges)}
	for _, n := range nodes {
		e.ids.Observe(n.ID)
		if !n.Resolved {
			res.Unresolved = append(res.Unresolved, n.ID)
			e.logger.Warn("unresolved component", "node", n.ID, "key", n.ComponentKey, "err", ErrUnresolvedComponent)
		}
	}

	e.mu.Lock()
	e.graph.ReplaceAll(nodes, edges)
	e.name = name
	e.mu.Unlock()

	e.logger.Info("imported workflow", "name", name, "nodes", res.Nodes, "edges", res.Edges, "unresolved", len(res.Unresolved))
	return res
}

// Clear empties the canvas and resets the name once c approves. An empty
// canvas is left alone without asking. It reports whether anything was
// cleared.
func (e *Editor) Clear(c Confirmer) bool {
	if e.graph.Snapshot().Empty() {
		return false
	}
	if c == nil || !c.Confirm(ClearPrompt) {
		return false
	}
	e.mu.Lock()
	e.graph.Clear()
	e.name = DefaultName
	e.mu.Unlock()
	e.logger.Info("cleared workflow")
	return true
}
