// Package report turns a slice of run-history records into aggregate
// pass/fail and duration statistics, computed with DuckDB's SQL engine
// rather than hand-rolled Go arithmetic.
package report

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/chazu/scriptrunner/internal/runhistory"
)

const schema = `
CREATE TABLE runs (
	id            VARCHAR,
	script_path   VARCHAR,
	duration_ms   DOUBLE,
	error_count   INTEGER
);
`

// Summary is the aggregate view of a batch of runs.
type Summary struct {
	TotalRuns  int
	PassedRuns int
	FailedRuns int
	MedianMs   float64
	P95Ms      float64
}

// Reporter is a throwaway in-memory DuckDB database loaded with one
// batch of runs at a time; it is not a persistent store, runhistory.Store
// already owns durability.
type Reporter struct {
	db *sql.DB
}

// NewReporter opens a fresh in-memory DuckDB database and creates its
// schema.
func NewReporter() (*Reporter, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("report: open duckdb: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("report: create schema: %w", err)
	}
	return &Reporter{db: db}, nil
}

// Close releases the underlying DuckDB connection.
func (r *Reporter) Close() error {
	return r.db.Close()
}

// LoadRuns replaces whatever runs were previously loaded with runs.
func (r *Reporter) LoadRuns(runs []runhistory.Run) error {
	if _, err := r.db.Exec(`DELETE FROM runs`); err != nil {
		return fmt.Errorf("report: clear runs: %w", err)
	}
	stmt, err := r.db.Prepare(`INSERT INTO runs (id, script_path, duration_ms, error_count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("report: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, run := range runs {
		durationMs := float64(run.FinishedAt.Sub(run.StartedAt)) / float64(time.Millisecond)
		if _, err := stmt.Exec(run.ID.String(), run.ScriptPath, durationMs, len(run.Errors)); err != nil {
			return fmt.Errorf("report: insert run %s: %w", run.ID, err)
		}
	}
	return nil
}

// Summary computes pass/fail counts and duration percentiles across the
// currently loaded runs.
func (r *Reporter) Summary() (Summary, error) {
	var s Summary
	row := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN error_count = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN error_count > 0 THEN 1 ELSE 0 END), 0),
			COALESCE(PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY duration_ms), 0),
			COALESCE(PERCENTILE_CONT(0.95) WITHIN GROUP (ORDER BY duration_ms), 0)
		FROM runs
	`)
	if err := row.Scan(&s.TotalRuns, &s.PassedRuns, &s.FailedRuns, &s.MedianMs, &s.P95Ms); err != nil {
		return Summary{}, fmt.Errorf("report: summarize: %w", err)
	}
	return s, nil
}

// SlowestScripts returns the n script paths with the highest average
// duration, slowest first.
func (r *Reporter) SlowestScripts(n int) ([]ScriptDuration, error) {
	rows, err := r.db.Query(`
		SELECT script_path, AVG(duration_ms) AS avg_ms
		FROM runs
		GROUP BY script_path
		ORDER BY avg_ms DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("report: slowest scripts: %w", err)
	}
	defer rows.Close()

	var result []ScriptDuration
	for rows.Next() {
		var sd ScriptDuration
		if err := rows.Scan(&sd.ScriptPath, &sd.AverageMs); err != nil {
			return nil, fmt.Errorf("report: scan slowest script: %w", err)
		}
		result = append(result, sd)
	}
	return result, rows.Err()
}

// ScriptDuration is one script's average run duration.
type ScriptDuration struct {
	ScriptPath string
	AverageMs  float64
}
