package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TimestampFormat is the ISO-8601 layout used for Document.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

var validate = validator.New()

// =============================================================================
// Export
// =============================================================================

// Export projects s into a document. Descriptors and resolution state are
// left out; only the component key survives. s is not modified.
func Export(name string, s *Snapshot, now time.Time) *Document {
	if name == "" {
		name = DefaultName
	}
	doc := &Document{
		Name:      name,
		Timestamp: now.UTC().Format(TimestampFormat),
		Nodes:     make([]DocumentNode, len(s.nodes)),
		Edges:     make([]Edge, len(s.edges)),
	}
	copy(doc.Edges, s.edges)
	for i, n := range s.nodes {
		doc.Nodes[i] = DocumentNode{
			ID:       n.ID,
			Type:     NodeType,
			Position: n.Position,
			Data: NodeData{
				Label:        n.ComponentKey,
				ComponentKey: n.ComponentKey,
			},
		}
	}
	return doc
}

// MarshalDocument encodes doc as indented UTF-8 JSON.
func MarshalDocument(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocument(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDocument encodes doc to w.
func WriteDocument(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteDocumentFile writes doc into dir under Filename(doc.Name, now) and
// returns the full path.
func WriteDocumentFile(doc *Document, dir string, now time.Time) (string, error) {
	path := filepath.Join(dir, Filename(doc.Name, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteDocument(doc, f); err != nil {
		return "", err
	}
	return path, nil
}

var slugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases name and replaces each run of non-alphanumeric
// characters with a single underscore.
func Slugify(name string) string {
	return slugRun.ReplaceAllString(strings.ToLower(name), "_")
}

// Filename returns the export file name "<slug>_<epochMillis>.json".
func Filename(name string, now time.Time) string {
	if name == "" {
		name = DefaultName
	}
	return Slugify(name) + "_" + strconv.FormatInt(now.UnixMilli(), 10) + ".json"
}

// =============================================================================
// Import
// =============================================================================

// ParseDocument decodes data and checks its shape. Any failure wraps
// ErrMalformedDocument.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return &doc, nil
}

// ReadDocument reads all of r and parses it.
func ReadDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return ParseDocument(data)
}

// ReadDocumentFile parses the document stored at path.
func ReadDocumentFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// Restore rebuilds nodes and edges from doc, resolving each component key
// against reg. A key that does not resolve yields an unresolved placeholder
// node at its stored position instead of an error; a nil reg leaves every
// node unresolved. Edges are taken as-is.
func Restore(doc *Document, reg Registry) (nodes []Node, edges []Edge, name string) {
	nodes = make([]Node, len(doc.Nodes))
	for i, dn := range doc.Nodes {
		nodes[i] = restoreNode(dn, reg)
	}
	edges = make([]Edge, len(doc.Edges))
	copy(edges, doc.Edges)

	name = doc.Name
	if name == "" {
		name = ImportedName
	}
	return nodes, edges, name
}

func restoreNode(dn DocumentNode, reg Registry) Node {
	key := dn.Data.ComponentKey
	if key == "" {
		key = dn.Data.Label
	}
	n := Node{
		ID:           dn.ID,
		ComponentKey: key,
		Position:     dn.Position,
	}
	if d, ok := lookup(reg, key); ok && key != "" {
		n.Resolved = true
		n.Descriptor = d
		return n
	}
	n.ErrorMessage = UnresolvedMessage(key)
	return n
}

// UnresolvedMessage is the error text attached to a node whose key is not
// registered.
func UnresolvedMessage(key string) string {
	return `Component "` + key + `" not found`
}
