package queuestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"seat-queue/internal/domain/queue"
	"seat-queue/internal/infra"
	"seat-queue/internal/pkg/clock"
	"seat-queue/internal/pkg/errs"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS reservations (
    id           TEXT PRIMARY KEY,
    queue_number INTEGER NOT NULL UNIQUE,
    name         TEXT NOT NULL,
    status       TEXT NOT NULL,
    created_at   TEXT NOT NULL,
    started_at   TEXT,
    completed_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations (status);
`

const sqliteColumns = `id, queue_number, name, status, created_at, started_at, completed_at`

// SQLiteStore persists entries in a single SQLite file owned by one process.
type SQLiteStore struct {
	mu   sync.Mutex // serializes writers within the process
	db   *sql.DB
	lock *flock.Flock

	clock    clock.Clock
	capacity int
	logger   *slog.Logger
}

var _ queue.Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path. A second process
// opening the same path fails instead of racing on queue numbers.
func OpenSQLite(ctx context.Context, path string, clk clock.Clock, capacity int, logger *slog.Logger) (*SQLiteStore, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("sqlite store %s is already in use by another process", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{
		db:       db,
		lock:     lock,
		clock:    clk,
		capacity: capacity,
		logger:   logger,
	}, nil
}

// Close closes the database and releases the file lock.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	dbErr := s.db.Close()
	lockErr := s.lock.Unlock()
	return errors.Join(dbErr, lockErr)
}

func (s *SQLiteStore) Create(ctx context.Context, name queue.Name) (*queue.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var created *queue.Entry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var next int64
		if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(queue_number), 0) + 1 FROM reservations`).Scan(&next); err != nil {
			return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to allocate queue number", err)
		}

		entry, err := queue.NewEntry(next, name, s.clock.Now())
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO reservations (id, queue_number, name, status, created_at) VALUES (?, ?, ?, ?, ?)`,
			entry.ID().String(),
			entry.QueueNumber(),
			entry.Name(),
			string(entry.Status()),
			formatTime(entry.CreatedAt()),
		)
		if err != nil {
			return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to insert reservation", err)
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *SQLiteStore) GetByQueueNumber(ctx context.Context, queueNumber int64) (*queue.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM reservations WHERE queue_number = ?`, queueNumber)
	entry, err := scanSQLiteEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.Wrapf(queue.ErrNotFound, "queue number %d", queueNumber)
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to get reservation", err)
	}
	return entry, nil
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]*queue.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteColumns+` FROM reservations`)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to list reservations", err)
	}
	defer rows.Close()

	entries := make([]*queue.Entry, 0)
	for rows.Next() {
		entry, err := scanSQLiteEntry(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan reservation", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to iterate reservations", err)
	}
	return entries, nil
}

func (s *SQLiteStore) SetStatus(ctx context.Context, queueNumber int64, status queue.Status) (*queue.Entry, error) {
	if !status.IsValid() {
		return nil, errs.Wrapf(queue.ErrUnknownStatus, "%q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *queue.Entry
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM reservations WHERE queue_number = ?`, queueNumber)
		entry, err := scanSQLiteEntry(row)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.Wrapf(queue.ErrNotFound, "queue number %d", queueNumber)
		}
		if err != nil {
			return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to get reservation", err)
		}

		var inProgress int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM reservations WHERE status = ?`, string(queue.StatusInProgress),
		).Scan(&inProgress); err != nil {
			return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to count seats", err)
		}

		if err := entry.TransitionTo(status, s.clock.Now(), inProgress, s.capacity); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE reservations SET status = ?, started_at = ?, completed_at = ? WHERE queue_number = ?`,
			string(entry.Status()),
			formatNullableTime(entry.StartedAt()),
			formatNullableTime(entry.CompletedAt()),
			queueNumber,
		)
		if err != nil {
			return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to update reservation", err)
		}
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to begin transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to commit transaction", err)
	}
	return nil
}

func scanSQLiteEntry(scanner interface{ Scan(dest ...any) error }) (*queue.Entry, error) {
	var (
		idRaw        string
		queueNumber  int64
		name         string
		statusRaw    string
		createdRaw   string
		startedRaw   sql.NullString
		completedRaw sql.NullString
	)
	if err := scanner.Scan(&idRaw, &queueNumber, &name, &statusRaw, &createdRaw, &startedRaw, &completedRaw); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idRaw)
	if err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}
	createdAt, err := parseTime(createdRaw)
	if err != nil {
		return nil, err
	}
	startedAt, err := parseNullableTime(startedRaw)
	if err != nil {
		return nil, err
	}
	completedAt, err := parseNullableTime(completedRaw)
	if err != nil {
		return nil, err
	}

	return queue.ReconstructEntry(id, queueNumber, name, queue.Status(statusRaw), createdAt, startedAt, completedAt), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatNullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return t, nil
}

func parseNullableTime(raw sql.NullString) (*time.Time, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	t, err := parseTime(raw.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
