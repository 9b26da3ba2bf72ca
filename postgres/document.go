package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/meikuraledutech/workflow"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SaveDocument stores doc under id in one transaction, replacing whatever was
// stored there before. An empty id gets an auto-generated UUID.
// Returns the id (generated or provided).
func (s *PGStore) SaveDocument(ctx context.Context, id string, doc *workflow.Document) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("workflow: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO workflow_documents (id, name, exported) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, exported = EXCLUDED.exported, updated_at = NOW()`,
		id, doc.Name, doc.Timestamp,
	); err != nil {
		return "", fmt.Errorf("workflow: upsert document: %w", err)
	}

	// Replace semantics: drop the previous graph rows first.
	if _, err := tx.Exec(ctx, `DELETE FROM workflow_edges WHERE document_id = $1`, id); err != nil {
		return "", fmt.Errorf("workflow: delete edges: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM workflow_nodes WHERE document_id = $1`, id); err != nil {
		return "", fmt.Errorf("workflow: delete nodes: %w", err)
	}

	if err := insertNodes(ctx, tx, id, doc.Nodes); err != nil {
		return "", err
	}
	if err := insertEdges(ctx, tx, id, doc.Edges); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("workflow: commit: %w", err)
	}
	return id, nil
}

// GetDocument loads the document stored under id.
// Returns ErrDocumentNotFound if there is none.
func (s *PGStore) GetDocument(ctx context.Context, id string) (*workflow.Document, error) {
	doc := &workflow.Document{}
	err := s.db.QueryRow(ctx,
		`SELECT name, exported FROM workflow_documents WHERE id = $1`, id,
	).Scan(&doc.Name, &doc.Timestamp)
	if err != nil {
		if isNoRows(err) {
			return nil, workflow.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("workflow: get document: %w", err)
	}

	if doc.Nodes, err = listNodes(ctx, s.db, id); err != nil {
		return nil, err
	}
	if doc.Edges, err = listEdges(ctx, s.db, id); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments summarizes every stored document, most recently saved first.
// Returns an empty slice (not nil) if none found.
func (s *PGStore) ListDocuments(ctx context.Context) ([]workflow.DocumentInfo, error) {
	rows, err := s.db.Query(ctx, `
		SELECT d.id, d.name, d.exported,
		       (SELECT COUNT(*) FROM workflow_nodes n WHERE n.document_id = d.id),
		       (SELECT COUNT(*) FROM workflow_edges e WHERE e.document_id = d.id)
		FROM workflow_documents d
		ORDER BY d.updated_at DESC, d.id`)
	if err != nil {
		return nil, fmt.Errorf("workflow: list documents: %w", err)
	}
	defer rows.Close()

	infos := []workflow.DocumentInfo{}
	for rows.Next() {
		var info workflow.DocumentInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Timestamp, &info.NodeCount, &info.EdgeCount); err != nil {
			return nil, fmt.Errorf("workflow: scan document: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workflow: rows documents: %w", err)
	}
	return infos, nil
}

// DeleteDocument removes a document with its nodes and edges.
// No error if the id doesn't exist.
func (s *PGStore) DeleteDocument(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM workflow_documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("workflow: delete document: %w", err)
	}
	return nil
}
