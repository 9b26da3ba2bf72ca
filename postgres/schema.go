package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS workflow_documents (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    exported   TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS workflow_nodes (
    document_id   TEXT NOT NULL REFERENCES workflow_documents(id) ON DELETE CASCADE,
    seq           INTEGER NOT NULL,
    id            TEXT NOT NULL,
    type          TEXT NOT NULL DEFAULT 'custom',
    x             DOUBLE PRECISION NOT NULL,
    y             DOUBLE PRECISION NOT NULL,
    label         TEXT NOT NULL DEFAULT '',
    component_key TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (document_id, seq)
);

CREATE TABLE IF NOT EXISTS workflow_edges (
    document_id   TEXT NOT NULL REFERENCES workflow_documents(id) ON DELETE CASCADE,
    seq           INTEGER NOT NULL,
    id            TEXT NOT NULL,
    source        TEXT NOT NULL,
    target        TEXT NOT NULL,
    source_handle TEXT NOT NULL DEFAULT '',
    target_handle TEXT NOT NULL DEFAULT '',
    animated      BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (document_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_workflow_documents_updated ON workflow_documents(updated_at);
`

// CreateSchema creates the workflow tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the workflow tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS workflow_edges, workflow_nodes, workflow_documents CASCADE;`)
	return err
}
