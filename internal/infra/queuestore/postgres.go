package queuestore

import (
	"context"
	"errors"
	"log/slog"

	"seat-queue/internal/domain/queue"
	"seat-queue/internal/infra"
	"seat-queue/internal/pkg/clock"
	"seat-queue/internal/pkg/errs"
	"seat-queue/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Every write takes this transaction-scoped advisory lock first, so numbering and
// the seat count are evaluated by one writer at a time across all app instances.
const writeLockKey int64 = 7_303_002

const postgresColumns = `id, queue_number, name, status, created_at, started_at, completed_at`

type PostgresStore struct {
	pool     *pgxpool.Pool
	clock    clock.Clock
	capacity int
	logger   *slog.Logger
}

var _ queue.Store = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool, clk clock.Clock, capacity int, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		pool:     pool,
		clock:    clk,
		capacity: capacity,
		logger:   logger,
	}
}

func (s *PostgresStore) Create(ctx context.Context, name queue.Name) (*queue.Entry, error) {
	var created *queue.Entry
	err := s.withWriteLock(ctx, func(tx pgx.Tx) error {
		var next int64
		if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(queue_number), 0) + 1 FROM reservations`).Scan(&next); err != nil {
			return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to allocate queue number", err)
		}

		entry, err := queue.NewEntry(next, name, s.clock.Now())
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO reservations (id, queue_number, name, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
			entry.ID(), entry.QueueNumber(), entry.Name(), string(entry.Status()), entry.CreatedAt(),
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "queue number already issued", err)
			}
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

func (s *PostgresStore) GetByQueueNumber(ctx context.Context, queueNumber int64) (*queue.Entry, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+postgresColumns+` FROM reservations WHERE queue_number = $1`, queueNumber)
	entry, err := scanPostgresEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.Wrapf(queue.ErrNotFound, "queue number %d", queueNumber)
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to get reservation", err)
	}
	return entry, nil
}

// ListAll reads with a single statement, which sees one consistent snapshot.
func (s *PostgresStore) ListAll(ctx context.Context) ([]*queue.Entry, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+postgresColumns+` FROM reservations`)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to list reservations", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queue.Entry, error) {
		return scanPostgresEntry(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan reservations", err)
	}
	return entries, nil
}

func (s *PostgresStore) SetStatus(ctx context.Context, queueNumber int64, status queue.Status) (*queue.Entry, error) {
	if !status.IsValid() {
		return nil, errs.Wrapf(queue.ErrUnknownStatus, "%q", status)
	}

	var updated *queue.Entry
	err := s.withWriteLock(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+postgresColumns+` FROM reservations WHERE queue_number = $1`, queueNumber)
		entry, err := scanPostgresEntry(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.Wrapf(queue.ErrNotFound, "queue number %d", queueNumber)
		}
		if err != nil {
			return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to get reservation", err)
		}

		var inProgress int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM reservations WHERE status = $1`, string(queue.StatusInProgress),
		).Scan(&inProgress); err != nil {
			return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to count seats", err)
		}

		if err := entry.TransitionTo(status, s.clock.Now(), inProgress, s.capacity); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE reservations SET status = $1, started_at = $2, completed_at = $3 WHERE queue_number = $4`,
			string(entry.Status()),
			pgconv.TimestamptzFromPtr(entry.StartedAt()),
			pgconv.TimestamptzFromPtr(entry.CompletedAt()),
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

func (s *PostgresStore) withWriteLock(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, writeLockKey); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindLockFailure, "failed to acquire write lock", err)
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to commit transaction", err)
	}
	return nil
}

func scanPostgresEntry(row pgx.Row) (*queue.Entry, error) {
	var (
		id          pgtype.UUID
		queueNumber int64
		name        string
		status      string
		createdAt   pgtype.Timestamptz
		startedAt   pgtype.Timestamptz
		completedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &queueNumber, &name, &status, &createdAt, &startedAt, &completedAt); err != nil {
		return nil, err
	}
	return queue.ReconstructEntry(
		pgconv.UUIDFromPgtype(id),
		queueNumber,
		name,
		queue.Status(status),
		pgconv.TimeFromPgtype(createdAt),
		pgconv.TimePtrFromPgtype(startedAt),
		pgconv.TimePtrFromPgtype(completedAt),
	), nil
}
