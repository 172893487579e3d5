package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/procviz/internal/logging"
	"github.com/me/procviz/pkg/model"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width UTC so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// Each pooled connection to ":memory:" would be a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logging.Component(logger, "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Workspace CRUD ---

func (s *SQLiteStore) CreateWorkspace(ctx context.Context, ws *model.Workspace) error {
	s.logger.Debug("sql", "op", "insert", "table", "workspaces", "id", ws.ID)

	procs, run, err := encodeWorkspace(ws)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, name, processes, policy, quantum, last_run, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ws.ID, ws.Name, procs, string(ws.Policy), ws.Quantum, run,
		formatTime(ws.CreatedAt), formatTime(ws.UpdatedAt),
	)
	return err
}

// GetWorkspace returns nil, nil when no workspace has the id.
func (s *SQLiteStore) GetWorkspace(ctx context.Context, id string) (*model.Workspace, error) {
	s.logger.Debug("sql", "op", "select", "table", "workspaces", "id", id)

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, processes, policy, quantum, last_run, created_at, updated_at
		 FROM workspaces WHERE id = ?`, id)
	ws, err := scanWorkspace(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return ws, err
}

func (s *SQLiteStore) ListWorkspaces(ctx context.Context, opts model.ListOptions) ([]*model.Workspace, int, error) {
	s.logger.Debug("sql", "op", "list", "table", "workspaces", "limit", opts.Limit, "offset", opts.Offset)
	opts.Clamp()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workspaces`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, processes, policy, quantum, last_run, created_at, updated_at
		 FROM workspaces ORDER BY updated_at DESC, id LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ws)
	}
	return out, total, rows.Err()
}

func (s *SQLiteStore) UpdateWorkspace(ctx context.Context, ws *model.Workspace) error {
	s.logger.Debug("sql", "op", "update", "table", "workspaces", "id", ws.ID)

	procs, run, err := encodeWorkspace(ws)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE workspaces SET name = ?, processes = ?, policy = ?, quantum = ?, last_run = ?, updated_at = ?
		 WHERE id = ?`,
		ws.Name, procs, string(ws.Policy), ws.Quantum, run, formatTime(ws.UpdatedAt), ws.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("workspace %s not found", ws.ID)
	}
	return nil
}

func (s *SQLiteStore) DeleteWorkspace(ctx context.Context, id string) error {
	s.logger.Debug("sql", "op", "delete", "table", "workspaces", "id", id)

	result, err := s.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("workspace %s not found", id)
	}
	return nil
}

func (s *SQLiteStore) DeleteWorkspacesIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	s.logger.Debug("sql", "op", "delete_idle", "table", "workspaces", "cutoff", cutoff)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM workspaces WHERE updated_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanWorkspace(row scanner) (*model.Workspace, error) {
	var ws model.Workspace
	var procsJSON, policy, createdAt, updatedAt string
	var runJSON sql.NullString

	if err := row.Scan(&ws.ID, &ws.Name, &procsJSON, &policy, &ws.Quantum, &runJSON,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	ws.Policy = model.PolicyName(policy)

	if err := json.Unmarshal([]byte(procsJSON), &ws.Processes); err != nil {
		return nil, fmt.Errorf("unmarshal processes: %w", err)
	}
	if runJSON.Valid && runJSON.String != "" {
		var run model.Run
		if err := json.Unmarshal([]byte(runJSON.String), &run); err != nil {
			return nil, fmt.Errorf("unmarshal last_run: %w", err)
		}
		ws.LastRun = &run
	}
	ws.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	ws.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
	return &ws, nil
}

func encodeWorkspace(ws *model.Workspace) (string, sql.NullString, error) {
	procs := ws.Processes
	if procs == nil {
		procs = []model.Process{}
	}
	procsJSON, err := json.Marshal(procs)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("marshal processes: %w", err)
	}
	var run sql.NullString
	if ws.LastRun != nil {
		data, err := json.Marshal(ws.LastRun)
		if err != nil {
			return "", sql.NullString{}, fmt.Errorf("marshal last_run: %w", err)
		}
		run = sql.NullString{String: string(data), Valid: true}
	}
	return string(procsJSON), run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
