package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/workflow"
)

// insertNodes writes nodes in document order.
func insertNodes(ctx context.Context, tx pgx.Tx, docID string, nodes []workflow.DocumentNode) error {
	for i, n := range nodes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO workflow_nodes (document_id, seq, id, type, x, y, label, component_key)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			docID, i, n.ID, n.Type, n.Position.X, n.Position.Y, n.Data.Label, n.Data.ComponentKey,
		); err != nil {
			return fmt.Errorf("workflow: insert node %s: %w", n.ID, err)
		}
	}
	return nil
}

// listNodes returns the nodes of a document in the order they were saved.
// Returns an empty slice (not nil) if none found.
func listNodes(ctx context.Context, q querier, docID string) ([]workflow.DocumentNode, error) {
	rows, err := q.Query(ctx,
		`SELECT id, type, x, y, label, component_key FROM workflow_nodes WHERE document_id = $1 ORDER BY seq`, docID)
	if err != nil {
		return nil, fmt.Errorf("workflow: list nodes: %w", err)
	}
	defer rows.Close()

	nodes := []workflow.DocumentNode{}
	for rows.Next() {
		var n workflow.DocumentNode
		if err := rows.Scan(&n.ID, &n.Type, &n.Position.X, &n.Position.Y, &n.Data.Label, &n.Data.ComponentKey); err != nil {
			return nil, fmt.Errorf("workflow: scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("workflow: rows nodes: %w", err)
	}

	return nodes, nil
}
