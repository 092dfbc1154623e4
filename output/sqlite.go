package output

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Cortexa-LLC/mcp/src/patentocr/pipeline"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    root TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    file_count INTEGER NOT NULL DEFAULT 0,
    failed_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS records (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    file_path TEXT NOT NULL,
    category TEXT NOT NULL,
    patent_number TEXT NOT NULL,
    title TEXT NOT NULL,
    applicant TEXT NOT NULL,
    application_date TEXT NOT NULL,
    patent_date TEXT NOT NULL,
    pages INTEGER NOT NULL DEFAULT 0,
    source TEXT NOT NULL DEFAULT '',
    error TEXT,
    PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_records_file_path ON records(file_path);
`

// Store persists runs and their records in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates the database at path and ensures the schema.
// ":memory:" is accepted.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: an in-memory database is private to its connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveRun records one completed run and all its results in a single
// transaction, returning the generated run id.
func (s *Store) SaveRun(ctx context.Context, root string, started time.Time, results []pipeline.Result) (string, error) {
	id := uuid.NewString()
	summary := pipeline.Summarize(results)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, root, started_at, finished_at, file_count, failed_count) VALUES (?, ?, ?, ?, ?, ?)`,
		id, root, started.UTC(), time.Now().UTC(), summary.Total, summary.Failed,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records
		(run_id, seq, file_path, category, patent_number, title, applicant, application_date, patent_date, pages, source, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range results {
		var errText sql.NullString
		if r.Err != nil {
			errText = sql.NullString{String: r.Err.Error(), Valid: true}
		}
		rec := r.Record
		if _, err := stmt.ExecContext(ctx, id, i, rec.FilePath, r.Category,
			rec.PatentNumber, rec.Title, rec.Applicant, rec.ApplicationDate, rec.PatentDate,
			r.Pages, string(r.Source), errText,
		); err != nil {
			return "", fmt.Errorf("insert record %s: %w", rec.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// StoredRecord is one row read back from the records table.
type StoredRecord struct {
	Seq      int
	Category string
	Row      []string
	Error    string
}

// Records returns the rows saved for runID in submission order. Row follows
// the CSV header layout.
func (s *Store) Records(ctx context.Context, runID string) ([]StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seq, category, file_path, patent_number, title, applicant,
		application_date, patent_date, COALESCE(error, '')
		FROM records WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []StoredRecord
	for rows.Next() {
		var r StoredRecord
		row := make([]string, 6)
		if err := rows.Scan(&r.Seq, &r.Category, &row[0], &row[1], &row[2], &row[3], &row[4], &row[5], &r.Error); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Row = row
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunCounts returns the file and failure counts stored for runID.
func (s *Store) RunCounts(ctx context.Context, runID string) (files, failed int, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT file_count, failed_count FROM runs WHERE id = ?`, runID).Scan(&files, &failed)
	if err != nil {
		return 0, 0, fmt.Errorf("query run %s: %w", runID, err)
	}
	return files, failed, nil
}
