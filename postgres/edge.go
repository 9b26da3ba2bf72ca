package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/workflow"
)

// insertEdges writes edges in document order.
func insertEdges(ctx context.Context, tx pgx.Tx, docID string, edges []workflow.Edge) error {
	for i, e := range edges {
		if _, err := tx.Exec(ctx,
			`INSERT INTO workflow_edges (document_id, seq, id, source, target, source_handle, target_handle, animated)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			docID, i, e.ID, e.Source, e.Target, e.SourceHandle, e.TargetHandle, e.Animated,
		); err != nil {
			return fmt.Errorf("workflow: insert edge %s: %w", e.ID, err)
		}
	}
	return nil
}

// listEdges returns the edges of a document in the order they were saved.
// Returns an empty slice (not nil) if none found.
func listEdges(ctx context.Context, q querier, docID string) ([]workflow.Edge, error) {
	rows, err := q.Query(ctx,
		`SELECT id, source, target, source_handle, target_handle, animated
		 FROM workflow_edges WHERE document_id = $1 ORDER BY seq`, docID)
	if err != nil {
		return nil, fmt.Errorf("workflow: list edges: %w", err)
	}
	defer rows.Close()

	edges := []workflow.Edge{}
	for rows.Next() {
		var e workflow.Edge
		if err := rows.Scan(&e.ID, &e.Source, &e.Target, &e.SourceHandle, &e.TargetHandle, &e.Animated); err != nil {
			return nil, fmt.Errorf("workflow: scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workflow: rows edges: %w", err)
	}

	return edges, nil
}
