// Package workflow is an in-memory engine for canvas-built workflows: typed
// components placed as nodes, wired together with directed edges, and
// exported to a portable JSON document that can be loaded back later.
package workflow

// Default workflow names.
const (
	DefaultName  = "Untitled Workflow"
	ImportedName = "Imported Workflow"
)

// NodeType is the only node type written to documents.
const NodeType = "custom"

// Anchor kinds. Edges leave a node from the bottom and enter from the top.
const (
	HandleTop    = "top"
	HandleBottom = "bottom"
)

// Position is a point in canvas coordinate space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Descriptor is the runtime representation of a component type.
// Payload is opaque to the engine and is never serialized.
type Descriptor struct {
	Key         string `json:"key" toml:"key"`
	Label       string `json:"label,omitempty" toml:"label"`
	Category    string `json:"category,omitempty" toml:"category"`
	Description string `json:"description,omitempty" toml:"description"`
	Payload     any    `json:"-" toml:"-"`
}

// Node is a placed component instance.
// Descriptor is re-resolved from ComponentKey on load and never persisted.
type Node struct {
	ID           string      `json:"id"`
	ComponentKey string      `json:"componentKey"`
	Position     Position    `json:"position"`
	Resolved     bool        `json:"resolved"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	Descriptor   *Descriptor `json:"-"`
}

// Edge is a directed connection between two node anchors.
// Self-loops, parallel edges and cycles are all allowed.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
	Animated     bool   `json:"animated"`
}

// Document is the portable form of a workflow.
// It holds no reference back to the graph it was exported from.
type Document struct {
	Name      string         `json:"name"`
	Timestamp string         `json:"timestamp"`
	Nodes     []DocumentNode `json:"nodes" validate:"required,dive"`
	Edges     []Edge         `json:"edges" validate:"required"`
}

// DocumentNode is a node record as written to a document.
type DocumentNode struct {
	ID       string   `json:"id" validate:"required"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`
}

// NodeData carries the stable component key. Label duplicates the key and is
// read as a fallback for older documents that lack componentKey.
type NodeData struct {
	Label        string `json:"label"`
	ComponentKey string `json:"componentKey"`
}
