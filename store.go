package workflow

import (
	"context"
	"errors"
)

var (
	ErrUnknownComponent    = errors.New("workflow: unknown component")
	ErrMalformedDocument   = errors.New("workflow: malformed document")
	ErrUnresolvedComponent = errors.New("workflow: component not found")
	ErrDanglingEdge        = errors.New("workflow: edge references a missing node")
	ErrSelfLoop            = errors.New("workflow: edge connects a node to itself")
	ErrDuplicateEdge       = errors.New("workflow: duplicate edge")
	ErrNodeNotFound        = errors.New("workflow: node not found")
	ErrEdgeNotFound        = errors.New("workflow: edge not found")
	ErrDocumentNotFound    = errors.New("workflow: document not found")
)

// DocumentInfo summarizes an archived document.
type DocumentInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
	NodeCount int    `json:"nodeCount"`
	EdgeCount int    `json:"edgeCount"`
}

// Repository archives exported documents. The engine itself never needs one;
// it is the storage contract for hosts that keep documents around.
type Repository interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Documents
	SaveDocument(ctx context.Context, id string, doc *Document) (string, error)
	GetDocument(ctx context.Context, id string) (*Document, error)
	ListDocuments(ctx context.Context) ([]DocumentInfo, error)
	DeleteDocument(ctx context.Context, id string) error
}
