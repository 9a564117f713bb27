// Package journal persists window activations to a local SQLite database.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/1broseidon/winwatch/internal/model"
	"github.com/1broseidon/winwatch/internal/platform"
)

// ErrJournalClosed is returned by operations on a closed journal.
var ErrJournalClosed = errors.New("journal closed")

// Entry is one recorded activation.
type Entry struct {
	ID          int64             `json:"id"`
	Session     string            `json:"session"`
	WindowID    platform.WindowID `json:"window_id"`
	Title       string            `json:"title"`
	Owner       string            `json:"owner"`
	PID         int               `json:"pid,omitempty"`
	Bounds      platform.Rect     `json:"bounds"`
	ActivatedAt time.Time         `json:"activated_at"`
}

// Journal appends activations under a per-process session id.
type Journal struct {
	mu      sync.Mutex
	db      *sql.DB
	session string
	logger  *zap.Logger
}

// Open opens or creates the journal at path.
func Open(path string, logger *zap.Logger) (*Journal, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	j := &Journal{
		db:      db,
		session: uuid.NewString(),
		logger:  logger,
	}
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("journal opened", zap.String("path", path), zap.String("session", j.session))
	return j, nil
}

func (j *Journal) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS activations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			window_id INTEGER NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			owner TEXT NOT NULL DEFAULT '',
			pid INTEGER NOT NULL DEFAULT 0,
			x INTEGER NOT NULL DEFAULT 0,
			y INTEGER NOT NULL DEFAULT 0,
			width INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0,
			activated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activations_session ON activations(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_activations_window ON activations(window_id)`,
	}

	for _, migration := range migrations {
		if _, err := j.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Session returns the id stamped on every entry written by this journal.
func (j *Journal) Session() string { return j.session }

func (j *Journal) conn() (*sql.DB, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ErrJournalClosed
	}
	return j.db, nil
}

// Record appends an activation of w at time at.
func (j *Journal) Record(ctx context.Context, w model.Window, at time.Time) (int64, error) {
	db, err := j.conn()
	if err != nil {
		return 0, err
	}

	b := w.Bounds()
	res, err := db.ExecContext(ctx, `
		INSERT INTO activations (session_id, window_id, title, owner, pid, x, y, width, height, activated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, j.session, int64(w.ID()), w.Title(), w.Name(), w.PID(), b.X, b.Y, b.Width, b.Height, at.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to record activation: %w", err)
	}
	return res.LastInsertId()
}

// Listener adapts Record to a window-activated listener. Failures are
// logged, never returned to the tracker.
func (j *Journal) Listener(ctx context.Context) func(model.Window) {
	return func(w model.Window) {
		if _, err := j.Record(ctx, w, time.Now()); err != nil {
			j.logger.Warn("failed to journal activation",
				zap.Uint32("window_id", uint32(w.ID())),
				zap.Error(err),
			)
		}
	}
}

// Recent returns up to limit entries, newest first. limit <= 0 means all.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return j.query(ctx, "", limit)
}

// SessionEntries returns the entries written under session, newest first.
func (j *Journal) SessionEntries(ctx context.Context, session string, limit int) ([]Entry, error) {
	return j.query(ctx, session, limit)
}

func (j *Journal) query(ctx context.Context, session string, limit int) ([]Entry, error) {
	db, err := j.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	q := `SELECT id, session_id, window_id, title, owner, pid, x, y, width, height, activated_at
		FROM activations`
	args := []any{}
	if session != "" {
		q += ` WHERE session_id = ?`
		args = append(args, session)
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activations: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e     Entry
			winID int64
			nanos int64
		)
		if err := rows.Scan(&e.ID, &e.Session, &winID, &e.Title, &e.Owner, &e.PID,
			&e.Bounds.X, &e.Bounds.Y, &e.Bounds.Width, &e.Bounds.Height, &nanos); err != nil {
			return nil, fmt.Errorf("failed to scan activation: %w", err)
		}
		e.WindowID = platform.WindowID(winID)
		e.ActivatedAt = time.Unix(0, nanos).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activations: %w", err)
	}
	return out, nil
}

// Close releases the database. Later calls return nil.
func (j *Journal) Close() error {
	j.mu.Lock()
	db := j.db
	j.db = nil
	j.mu.Unlock()

	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}
	j.logger.Debug("journal closed", zap.String("session", j.session))
	return nil
}
