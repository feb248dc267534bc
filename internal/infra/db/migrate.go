package db

import (
	"context"
	"errors"
	"fmt"

	"seat-queue/migrations"

	"github.com/golang-migrate/migrate/v4"
	migratePgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// MigrationResult reports the schema version before and after a Migrate call.
// A zero version means the database had no migrations applied.
type MigrationResult struct {
	From uint
	To   uint
}

func (r MigrationResult) Changed() bool {
	return r.From != r.To
}

// Migrate brings the schema up to the newest embedded version.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (MigrationResult, error) {
	m, err := newMigrator(pool)
	if err != nil {
		return MigrationResult{}, err
	}
	defer m.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	from, err := currentVersion(m)
	if err != nil {
		return MigrationResult{}, err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return MigrationResult{}, fmt.Errorf("failed to apply migrations: %w", err)
	}
	to, err := currentVersion(m)
	if err != nil {
		return MigrationResult{}, err
	}
	return MigrationResult{From: from, To: to}, nil
}

// newMigrator opens a dedicated database/sql handle from the pool's settings so
// closing the migrator never closes the application pool.
func newMigrator(pool *pgxpool.Pool) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	conn := stdlib.OpenDB(*pool.Config().ConnConfig)
	driver, err := migratePgx.WithInstance(conn, &migratePgx.Config{})
	if err != nil {
		_ = conn.Close()
		_ = source.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		_ = driver.Close()
		_ = source.Close()
		return nil, fmt.Errorf("failed to create migrations instance: %w", err)
	}
	return m, nil
}

func currentVersion(m *migrate.Migrate) (uint, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return 0, fmt.Errorf("schema version %d is dirty; fix it manually and force the version", version)
	}
	return version, nil
}
