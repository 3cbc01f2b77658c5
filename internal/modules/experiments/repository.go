package experiments

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Run is a persisted experiment invocation. Result payloads are stored as
// msgpack blobs since the server never queries inside them; they are decoded
// only when a history entry is fetched.
type Run struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Params    string    `json:"params"`
	CreatedAt time.Time `json:"createdAt"`
	Result    any       `json:"result,omitempty"`
}

// Repository stores experiment run history in the cache database. History is
// a convenience for the UI; the simulation endpoints themselves stay
// stateless and every run is reproducible from its parameters and draws.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a run-history repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "experiments").Logger(),
	}
}

// Migrate creates the runs table if needed.
func (r *Repository) Migrate() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			params TEXT NOT NULL,
			result BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_kind_created ON runs(kind, created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate runs table: %w", err)
	}
	return nil
}

// Record persists one experiment run and returns its generated ID.
func (r *Repository) Record(kind, params string, result any) (string, error) {
	blob, err := msgpack.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	id := uuid.New().String()
	_, err = r.db.Exec(
		`INSERT INTO runs (id, kind, params, result, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, kind, params, blob, time.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	return id, nil
}

// Recent returns the newest runs, optionally filtered by kind. Result blobs
// are decoded into generic values for JSON transport.
func (r *Repository) Recent(kind string, limit int) ([]Run, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `SELECT id, kind, params, result, created_at FROM runs `
	args := []any{}
	if kind != "" {
		query += `WHERE kind = ? `
		args = append(args, kind)
	}
	query += `ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var run Run
		var blob []byte
		var createdAt int64
		if err := rows.Scan(&run.ID, &run.Kind, &run.Params, &blob, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.CreatedAt = time.Unix(createdAt, 0).UTC()

		var result any
		if err := msgpack.Unmarshal(blob, &result); err != nil {
			r.log.Warn().Err(err).Str("id", run.ID).Msg("Undecodable result blob, returning run without result")
		} else {
			run.Result = result
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// PruneOlderThan deletes runs past the retention window and returns how many
// rows were removed.
func (r *Repository) PruneOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).Unix()
	res, err := r.db.Exec(`DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return res.RowsAffected()
}
