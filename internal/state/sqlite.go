package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and brings the
// schema up to date. Use ":memory:" for tests.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open build history database: %w", err)
	}
	// A single connection keeps :memory: databases coherent and avoids
	// SQLITE_BUSY on concurrent writes.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping build history database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// StartBuild implements Store.
func (s *SQLiteStore) StartBuild(app, command, variant string) (*BuildRun, error) {
	run := &BuildRun{
		ID:        uuid.New().String(),
		App:       app,
		Command:   command,
		Variant:   variant,
		Status:    BuildStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO build_runs (id, app, command, variant, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.App, run.Command, run.Variant, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record build start: %w", err)
	}
	return run, nil
}

// FinishBuild implements Store.
func (s *SQLiteStore) FinishBuild(id string, status BuildStatus, errMsg, apkPath string, apkSize int64) error {
	now := time.Now().UTC()
	var errorPtr *string
	if errMsg != "" {
		errorPtr = &errMsg
	}

	result, err := s.db.Exec(
		`UPDATE build_runs SET status = ?, completed_at = ?, error = ?, apk_path = ?, apk_size = ? WHERE id = ?`,
		status, now, errorPtr, apkPath, apkSize, id,
	)
	if err != nil {
		return fmt.Errorf("failed to record build completion: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("build run not found: %s", id)
	}
	return nil
}

const buildRunColumns = `id, app, command, variant, status, started_at, completed_at, error, apk_path, apk_size`

// ListBuilds implements Store.
func (s *SQLiteStore) ListBuilds(limit int) ([]*BuildRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+buildRunColumns+` FROM build_runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list build runs: %w", err)
	}
	defer rows.Close()

	var runs []*BuildRun
	for rows.Next() {
		run, err := scanBuildRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestBuild implements Store.
func (s *SQLiteStore) LatestBuild(app string) (*BuildRun, error) {
	row := s.db.QueryRow(
		`SELECT `+buildRunColumns+` FROM build_runs WHERE app = ? ORDER BY started_at DESC LIMIT 1`, app,
	)
	run, err := scanBuildRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBuildRun(row rowScanner) (*BuildRun, error) {
	run := &BuildRun{}
	var completedAt sql.NullTime
	var errMsg, apkPath sql.NullString
	var apkSize sql.NullInt64

	err := row.Scan(&run.ID, &run.App, &run.Command, &run.Variant, &run.Status,
		&run.StartedAt, &completedAt, &errMsg, &apkPath, &apkSize)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan build run: %w", err)
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	if apkPath.Valid {
		run.APKPath = apkPath.String
	}
	if apkSize.Valid {
		run.APKSize = apkSize.Int64
	}
	return run, nil
}

var _ Store = (*SQLiteStore)(nil)
