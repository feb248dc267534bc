//go:build e2e

package queuestore_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"seat-queue/internal/domain/queue"
	"seat-queue/internal/infra/db"
	"seat-queue/internal/infra/queuestore"
	"seat-queue/internal/pkg/clock"
	"seat-queue/internal/pkg/config"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgUser     = "test"
	pgPassword = "testpass"
	pgDatabase = "seatq"
)

type postgresSuite struct {
	storeSuite
	pool *pgxpool.Pool
}

func (s *postgresSuite) SetupSuite() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       pgDatabase,
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,size=256m",
			},
			Cmd: []string{"postgres", "-c", "fsync=off", "-c", "synchronous_commit=off"},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, port.Port(), pgDatabase)
			}).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err, "failed to start postgres container")
	s.T().Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	s.Require().NoError(err)

	pool, _, err := db.Connect(ctx, config.DBConfig{
		Host:     host,
		Port:     port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   pgDatabase,
		SSLMode:  "disable",
		TimeZone: "Asia/Tokyo",
		MaxConns: 50,
	})
	s.Require().NoError(err)
	s.pool = pool
	s.T().Cleanup(pool.Close)

	result, err := db.Migrate(ctx, pool)
	s.Require().NoError(err)
	s.Require().True(result.Changed())
	s.Require().Equal(uint(0), result.From)
	s.Require().Equal(uint(1), result.To)

	// Running again is a no-op.
	result, err = db.Migrate(ctx, pool)
	s.Require().NoError(err)
	s.Require().False(result.Changed())
	s.Require().Equal(uint(1), result.To)
}

func (s *postgresSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE reservations")
	require.NoError(s.T(), err)
	s.storeSuite.SetupTest()
}

func TestPostgresStore(t *testing.T) {
	s := &postgresSuite{}
	s.newStore = func(clk clock.Clock, capacity int) queue.Store {
		return queuestore.NewPostgresStore(s.pool, clk, capacity, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}
	suite.Run(t, s)
}
