// Package runhistory keeps a durable, queryable record of script runs
// independent of whatever stdout/stderr a given invocation wrote.
package runhistory

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// cborEncMode is canonical-mode CBOR, for deterministic,
// content-addressable encoding of recorded payloads.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("runhistory: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	script_path  TEXT NOT NULL,
	started_at   TIMESTAMP NOT NULL,
	finished_at  TIMESTAMP,
	error_count  INTEGER NOT NULL DEFAULT 0,
	errors_cbor  BLOB
);
`

// RecordedError is one error surfaced during a run, independent of its
// in-memory eval.RuntimeError representation — only what's needed to
// reconstruct a report survives the round trip through CBOR.
type RecordedError struct {
	Phase   string `cbor:"phase"`
	Message string `cbor:"message"`
	Line    int    `cbor:"line"`
	Column  int    `cbor:"column"`
}

// Run is one script execution's durable record.
type Run struct {
	ID         uuid.UUID
	ScriptPath string
	StartedAt  time.Time
	FinishedAt time.Time
	Errors     []RecordedError
}

// Store is a sqlite-backed run-history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite file at path and
// applies the schema migration above. Safe to call repeatedly.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runhistory: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("runhistory: migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun inserts a new run row and returns its in-progress record.
func (s *Store) BeginRun(scriptPath string) (*Run, error) {
	run := &Run{
		ID:         uuid.New(),
		ScriptPath: scriptPath,
		StartedAt:  time.Now(),
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, script_path, started_at) VALUES (?, ?, ?)`,
		run.ID.String(), run.ScriptPath, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("runhistory: begin run: %w", err)
	}
	return run, nil
}

// FinishRun CBOR-encodes errs and records the run's completion.
func (s *Store) FinishRun(run *Run, errs []RecordedError) error {
	run.FinishedAt = time.Now()
	run.Errors = errs

	blob, err := cborEncMode.Marshal(errs)
	if err != nil {
		return fmt.Errorf("runhistory: encode errors: %w", err)
	}
	_, err = s.db.Exec(
		`UPDATE runs SET finished_at = ?, error_count = ?, errors_cbor = ? WHERE id = ?`,
		run.FinishedAt, len(errs), blob, run.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("runhistory: finish run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first, up to limit.
func (s *Store) Recent(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, script_path, started_at, finished_at, errors_cbor FROM runs
		 ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("runhistory: query recent: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			idStr      string
			scriptPath string
			startedAt  time.Time
			finishedAt sql.NullTime
			blob       []byte
		)
		if err := rows.Scan(&idStr, &scriptPath, &startedAt, &finishedAt, &blob); err != nil {
			return nil, fmt.Errorf("runhistory: scan run: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("runhistory: parse run id %q: %w", idStr, err)
		}
		run := Run{ID: id, ScriptPath: scriptPath, StartedAt: startedAt}
		if finishedAt.Valid {
			run.FinishedAt = finishedAt.Time
		}
		if len(blob) > 0 {
			if err := cbor.Unmarshal(blob, &run.Errors); err != nil {
				return nil, fmt.Errorf("runhistory: decode errors for run %s: %w", idStr, err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
