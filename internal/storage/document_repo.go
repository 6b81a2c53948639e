package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"levelup/internal/engine"
)

// DataKey is the storage slot for the canonical document, kept identical to
// the browser app's localStorage key so exports stay interchangeable.
const DataKey = "levelup:data:v1"

// snapshotKeep bounds the per-key snapshot history.
const snapshotKeep = 20

type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Save persists the document under key and appends a snapshot, pruning old
// ones past the retention limit.
func (r *DocumentRepo) Save(ctx context.Context, key string, doc *engine.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO documents (key, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP
		`, key, string(body)); err != nil {
			return fmt.Errorf("document save: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO snapshots (key, body) VALUES (?, ?)`, key, string(body)); err != nil {
			return fmt.Errorf("snapshot insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM snapshots WHERE key = ? AND id NOT IN (
				SELECT id FROM snapshots WHERE key = ? ORDER BY id DESC LIMIT ?
			)
		`, key, key, snapshotKeep); err != nil {
			return fmt.Errorf("snapshot prune: %w", err)
		}
		return nil
	})
}

// Load returns the normalized document stored under key, or nil when the
// slot is empty.
func (r *DocumentRepo) Load(ctx context.Context, key string) (*engine.Document, error) {
	row := r.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE key = ?`, key)

	var body string
	if err := row.Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("document load: %w", err)
	}
	return engine.NormalizeRaw([]byte(body)), nil
}

// SnapshotCount reports how many snapshots exist for key.
func (r *DocumentRepo) SnapshotCount(ctx context.Context, key string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE key = ?`, key)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("snapshot count: %w", err)
	}
	return n, nil
}
