package queries

//go:generate mockgen -source=queue.go -destination=../../../tests/mock/queries/queue.go -package=queriesmock

import (
	"context"
	"sort"

	"seat-queue/internal/domain/estimation"
	"seat-queue/internal/domain/queue"
	"seat-queue/internal/pkg/clock"
	"seat-queue/internal/pkg/errs"
)

// QueueReadStore is the read half of queue.Store.
type QueueReadStore interface {
	GetByQueueNumber(ctx context.Context, queueNumber int64) (*queue.Entry, error)
	ListAll(ctx context.Context) ([]*queue.Entry, error)
}

type QueueQueries interface {
	List(ctx context.Context) ([]*ReservationView, error)
	Get(ctx context.Context, queueNumber int64) (*ReservationView, error)
	WaitingList(ctx context.Context) ([]*WaitingListItem, error)
	WaitingEstimates(ctx context.Context) ([]*WaitEstimateView, error)
	WaitInfo(ctx context.Context, queueNumber int64) (*WaitInfoView, error)
	NextEligible(ctx context.Context) ([]*ReservationView, error)
	Stats(ctx context.Context) (*StatsView, error)
	Snapshot(ctx context.Context) (*estimation.Snapshot, error)
}

type queueQueriesImpl struct {
	store  QueueReadStore
	engine *estimation.Engine
	clock  clock.Clock
}

func NewQueueQueries(store QueueReadStore, engine *estimation.Engine, clk clock.Clock) QueueQueries {
	return &queueQueriesImpl{store: store, engine: engine, clock: clk}
}

// Snapshot reads every entry once and evaluates it at the current time. All
// derived values of one response come from the same snapshot.
func (q *queueQueriesImpl) Snapshot(ctx context.Context) (*estimation.Snapshot, error) {
	entries, err := q.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return q.engine.Snapshot(entries, q.clock.Now()), nil
}

// List presents every entry in ascending queue number order.
func (q *queueQueriesImpl) List(ctx context.Context) ([]*ReservationView, error) {
	entries, err := q.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].QueueNumber() < entries[j].QueueNumber()
	})

	views := make([]*ReservationView, len(entries))
	for i, e := range entries {
		views[i] = NewReservationView(e)
	}
	return views, nil
}

func (q *queueQueriesImpl) Get(ctx context.Context, queueNumber int64) (*ReservationView, error) {
	entry, err := q.store.GetByQueueNumber(ctx, queueNumber)
	if err != nil {
		return nil, err
	}
	return NewReservationView(entry), nil
}

func (q *queueQueriesImpl) WaitingList(ctx context.Context) ([]*WaitingListItem, error) {
	snap, err := q.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	waiting := snap.WaitingList()
	items := make([]*WaitingListItem, len(waiting))
	for i, e := range waiting {
		items[i] = &WaitingListItem{QueueNumber: e.QueueNumber(), Name: e.Name()}
	}
	return items, nil
}

func (q *queueQueriesImpl) WaitingEstimates(ctx context.Context) ([]*WaitEstimateView, error) {
	snap, err := q.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	estimates := snap.WaitingEstimates()
	views := make([]*WaitEstimateView, len(estimates))
	for i, est := range estimates {
		views[i] = &WaitEstimateView{
			ReservationView:      *NewReservationView(est.Entry),
			Position:             est.Position,
			EstimatedWaitMinutes: est.EstimatedWaitMinutes,
		}
	}
	return views, nil
}

func (q *queueQueriesImpl) WaitInfo(ctx context.Context, queueNumber int64) (*WaitInfoView, error) {
	snap, err := q.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var target *queue.Entry
	for _, e := range snap.Entries() {
		if e.QueueNumber() == queueNumber {
			target = e
			break
		}
	}
	if target == nil {
		return nil, errs.Wrapf(queue.ErrNotFound, "queue number %d", queueNumber)
	}

	info := snap.WaitInfo(target)
	return &WaitInfoView{
		QueueNumber:          info.QueueNumber,
		Position:             info.Position,
		EstimatedWaitMinutes: info.EstimatedWaitMinutes,
		CurrentStatus:        info.CurrentStatus.String(),
	}, nil
}

func (q *queueQueriesImpl) NextEligible(ctx context.Context) ([]*ReservationView, error) {
	snap, err := q.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	next := snap.NextEligible()
	views := make([]*ReservationView, len(next))
	for i, e := range next {
		views[i] = NewReservationView(e)
	}
	return views, nil
}

func (q *queueQueriesImpl) Stats(ctx context.Context) (*StatsView, error) {
	snap, err := q.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return newStatsView(snap.Stats(), q.engine.Settings()), nil
}
