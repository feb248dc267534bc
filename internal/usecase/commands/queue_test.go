//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"seat-queue/internal/domain/estimation"
	"seat-queue/internal/domain/queue"
	"seat-queue/internal/infra"
	"seat-queue/internal/infra/queuestore"
	"seat-queue/internal/pkg/clock"
	"seat-queue/internal/pkg/errs"
	"seat-queue/internal/usecase/commands"
	commandsmock "seat-queue/tests/mock/commands"
	queuemock "seat-queue/tests/mock/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var start = time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

type QueueCommandsTestSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	recorder *commandsmock.MockRecorder
	clock    *clock.MockClock
	store    *queuestore.MemoryStore
	engine   *estimation.Engine
	uc       commands.QueueCommands
}

func (s *QueueCommandsTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.recorder = commandsmock.NewMockRecorder(s.ctrl)
	s.clock = clock.NewMockClock(start)
	s.store = queuestore.NewMemoryStore(s.clock, 2)
	s.engine = estimation.NewEngine(estimation.Settings{MaxConcurrent: 2, SessionDuration: 10 * time.Minute, Location: time.UTC})
	s.uc = commands.NewQueueCommands(s.store, s.engine, s.clock, s.recorder, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func (s *QueueCommandsTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestQueueCommandsSuite(t *testing.T) {
	suite.Run(t, new(QueueCommandsTestSuite))
}

func (s *QueueCommandsTestSuite) seed(names ...string) {
	for _, n := range names {
		name, err := queue.NewName(n)
		s.Require().NoError(err)
		_, err = s.store.Create(s.ctx, name)
		s.Require().NoError(err)
	}
}

func (s *QueueCommandsTestSuite) TestCreate() {
	s.Run("trims and stores the name", func() {
		s.recorder.EXPECT().RecordCreated()

		view, err := s.uc.Create(s.ctx, "  Taro ")

		s.Require().NoError(err)
		s.Equal(int64(1), view.QueueNumber)
		s.Equal("Taro", view.Name)
		s.Equal("waiting", view.Status)
		s.Equal(start, view.CreatedAt)
		s.Nil(view.StartedAt)
	})

	s.Run("blank name is a validation error and records nothing", func() {
		_, err := s.uc.Create(s.ctx, "   ")

		s.True(errs.Is(err, queue.ErrEmptyName))
		s.True(errs.Is(err, errs.ErrValidation))
	})
}

func (s *QueueCommandsTestSuite) TestSetStatus() {
	s.seed("Taro", "Hanako", "Jiro")

	s.Run("admits a waiting entry", func() {
		s.recorder.EXPECT().RecordTransition("in_progress", commands.TransitionOK)

		view, err := s.uc.SetStatus(s.ctx, 1, "in_progress")

		s.Require().NoError(err)
		s.Equal("in_progress", view.Status)
		s.Require().NotNil(view.StartedAt)
		s.Equal(start, *view.StartedAt)
	})

	s.Run("unknown status string", func() {
		_, err := s.uc.SetStatus(s.ctx, 1, "paused")

		s.True(errs.Is(err, queue.ErrUnknownStatus))
	})

	s.Run("unknown queue number", func() {
		s.recorder.EXPECT().RecordTransition("cancelled", commands.TransitionNotFound)

		_, err := s.uc.SetStatus(s.ctx, 42, "cancelled")

		s.True(errs.Is(err, queue.ErrNotFound))
	})

	s.Run("illegal transition is rejected and counted", func() {
		s.recorder.EXPECT().RecordTransition("completed", commands.TransitionRejected)

		_, err := s.uc.SetStatus(s.ctx, 2, "completed")

		s.True(errs.Is(err, queue.ErrInvalidTransition))
		s.False(errs.Is(err, queue.ErrCapacityExceeded))
	})

	s.Run("full house", func() {
		s.recorder.EXPECT().RecordTransition("in_progress", commands.TransitionOK)
		s.recorder.EXPECT().RecordTransition("in_progress", commands.TransitionNoSeat)

		_, err := s.uc.SetStatus(s.ctx, 2, "in_progress")
		s.Require().NoError(err)
		_, err = s.uc.SetStatus(s.ctx, 3, "in_progress")

		s.True(errs.Is(err, queue.ErrCapacityExceeded))
	})
}

func (s *QueueCommandsTestSuite) TestAdmitNext() {
	s.Run("nobody waiting", func() {
		_, err := s.uc.AdmitNext(s.ctx)

		s.True(errs.Is(err, commands.ErrNobodyWaiting))
		s.True(errs.Is(err, errs.ErrNotFound))
	})

	s.seed("Taro", "Hanako", "Jiro")
	_, err := s.store.SetStatus(s.ctx, 1, queue.StatusCancelled)
	s.Require().NoError(err)

	s.Run("admits in FIFO order skipping cancelled entries", func() {
		s.recorder.EXPECT().RecordTransition("in_progress", commands.TransitionOK).Times(2)

		first, err := s.uc.AdmitNext(s.ctx)
		s.Require().NoError(err)
		second, err := s.uc.AdmitNext(s.ctx)
		s.Require().NoError(err)

		s.Equal(int64(2), first.QueueNumber)
		s.Equal(int64(3), second.QueueNumber)
	})

	s.seed("Saburo")

	s.Run("no free seat", func() {
		s.recorder.EXPECT().RecordTransition("in_progress", commands.TransitionNoSeat)

		_, err := s.uc.AdmitNext(s.ctx)

		s.True(errs.Is(err, queue.ErrCapacityExceeded))
		got, getErr := s.store.GetByQueueNumber(s.ctx, 4)
		s.Require().NoError(getErr)
		s.Equal(queue.StatusWaiting, got.Status())
	})
}

func TestQueueCommands_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queuemock.NewMockStore(ctrl)
	recorder := commandsmock.NewMockRecorder(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	failure := infra.WrapRepoErr(logger, infra.KindDBFailure, "failed to update reservation", errs.New("connection reset"))

	store.EXPECT().SetStatus(gomock.Any(), int64(1), queue.StatusCompleted).Return(nil, failure)
	recorder.EXPECT().RecordTransition("completed", commands.TransitionFailed)

	uc := commands.NewQueueCommands(store, estimation.NewEngine(estimation.DefaultSettings()), clock.NewMockClock(start), recorder, logger)
	_, err := uc.SetStatus(context.Background(), 1, "completed")

	if !infra.IsKind(err, infra.KindDBFailure) {
		t.Fatalf("expected DB failure, got %v", err)
	}
}

// The outcome comes from the store's own atomic write; the command never reads
// the entry separately, so a concurrent change cannot skew what gets recorded.
func TestQueueCommands_RecordsOutcomeOfTheWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queuemock.NewMockStore(ctrl)
	recorder := commandsmock.NewMockRecorder(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	completedAt := start.Add(9 * time.Minute)

	done := queue.ReconstructEntry(uuid.New(), 1, "Taro", queue.StatusCompleted, start, &start, &completedAt)
	gomock.InOrder(
		store.EXPECT().SetStatus(gomock.Any(), int64(1), queue.StatusCompleted).Return(done, nil),
		store.EXPECT().SetStatus(gomock.Any(), int64(1), queue.StatusCompleted).
			Return(nil, errs.Wrapf(queue.ErrInvalidTransition, "#1: completed -> completed")),
	)
	gomock.InOrder(
		recorder.EXPECT().RecordTransition("completed", commands.TransitionOK),
		recorder.EXPECT().RecordTransition("completed", commands.TransitionRejected),
	)

	uc := commands.NewQueueCommands(store, estimation.NewEngine(estimation.DefaultSettings()), clock.NewMockClock(start), recorder, logger)

	view, err := uc.SetStatus(context.Background(), 1, "completed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Status != "completed" {
		t.Fatalf("expected completed view, got %s", view.Status)
	}

	_, err = uc.SetStatus(context.Background(), 1, "completed")
	if !errs.Is(err, queue.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}
