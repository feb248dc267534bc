package commands

//go:generate mockgen -source=queue.go -destination=../../../tests/mock/commands/queue.go -package=commandsmock

import (
	"context"
	"log/slog"

	"seat-queue/internal/domain/estimation"
	"seat-queue/internal/domain/queue"
	"seat-queue/internal/pkg/clock"
	"seat-queue/internal/pkg/errs"
	"seat-queue/internal/usecase/queries"
)

var ErrNobodyWaiting = errs.Wrap(errs.ErrNotFound, "nobody is waiting")

// Outcomes of a requested status change, as reported to the Recorder.
const (
	TransitionOK       = "ok"
	TransitionRejected = "rejected"
	TransitionNoSeat   = "capacity"
	TransitionNotFound = "not_found"
	TransitionFailed   = "error"
)

// Recorder receives write outcomes for monitoring.
type Recorder interface {
	RecordCreated()
	RecordTransition(to, result string)
}

type QueueCommands interface {
	Create(ctx context.Context, name string) (*queries.ReservationView, error)
	SetStatus(ctx context.Context, queueNumber int64, status string) (*queries.ReservationView, error)
	AdmitNext(ctx context.Context) (*queries.ReservationView, error)
}

type queueCommandsImpl struct {
	store    queue.Store
	engine   *estimation.Engine
	clock    clock.Clock
	recorder Recorder
	logger   *slog.Logger
}

func NewQueueCommands(store queue.Store, engine *estimation.Engine, clk clock.Clock, recorder Recorder, logger *slog.Logger) QueueCommands {
	return &queueCommandsImpl{
		store:    store,
		engine:   engine,
		clock:    clk,
		recorder: recorder,
		logger:   logger,
	}
}

func (uc *queueCommandsImpl) Create(ctx context.Context, rawName string) (*queries.ReservationView, error) {
	name, err := queue.NewName(rawName)
	if err != nil {
		return nil, err
	}

	entry, err := uc.store.Create(ctx, name)
	if err != nil {
		return nil, err
	}

	uc.recorder.RecordCreated()
	uc.logger.Info("reservation created",
		slog.Int64("queue_number", entry.QueueNumber()),
		slog.String("id", entry.ID().String()))

	return queries.NewReservationView(entry), nil
}

func (uc *queueCommandsImpl) SetStatus(ctx context.Context, queueNumber int64, rawStatus string) (*queries.ReservationView, error) {
	status, err := queue.ParseStatus(rawStatus)
	if err != nil {
		return nil, errs.Wrapf(err, "%q", rawStatus)
	}
	return uc.transition(ctx, queueNumber, status)
}

// AdmitNext moves the head of the waiting list into a free seat. A concurrent
// admission of the same entry surfaces as an invalid transition.
func (uc *queueCommandsImpl) AdmitNext(ctx context.Context) (*queries.ReservationView, error) {
	entries, err := uc.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	snap := uc.engine.Snapshot(entries, uc.clock.Now())
	waiting := snap.WaitingList()
	if len(waiting) == 0 {
		return nil, ErrNobodyWaiting
	}
	next := snap.NextEligible()
	if len(next) == 0 {
		uc.recorder.RecordTransition(queue.StatusInProgress.String(), TransitionNoSeat)
		return nil, errs.Wrapf(queue.ErrCapacityExceeded, "#%d must wait", waiting[0].QueueNumber())
	}

	return uc.transition(ctx, next[0].QueueNumber(), queue.StatusInProgress)
}

func (uc *queueCommandsImpl) transition(ctx context.Context, queueNumber int64, to queue.Status) (*queries.ReservationView, error) {
	entry, err := uc.store.SetStatus(ctx, queueNumber, to)
	if err != nil {
		uc.recorder.RecordTransition(to.String(), transitionResult(err))
		if errs.Is(err, errs.ErrInvalidTransition) {
			uc.logger.Warn("status change rejected",
				slog.Int64("queue_number", queueNumber),
				slog.String("to", to.String()),
				slog.String("reason", err.Error()))
		}
		return nil, err
	}

	uc.recorder.RecordTransition(to.String(), TransitionOK)
	uc.logger.Info("status changed",
		slog.Int64("queue_number", queueNumber),
		slog.String("to", to.String()))

	return queries.NewReservationView(entry), nil
}

func transitionResult(err error) string {
	switch {
	case errs.Is(err, queue.ErrCapacityExceeded):
		return TransitionNoSeat
	case errs.Is(err, errs.ErrInvalidTransition):
		return TransitionRejected
	case errs.Is(err, errs.ErrNotFound):
		return TransitionNotFound
	default:
		return TransitionFailed
	}
}
