//go:build unit || e2e

package builder

import (
	"time"

	"seat-queue/internal/domain/queue"
	reqdto "seat-queue/internal/handler/dto/request"
	"seat-queue/internal/usecase/queries"

	"github.com/google/uuid"
)

type EntryBuilder struct {
	ID          uuid.UUID
	QueueNumber int64
	Name        string
	Status      queue.Status
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

func NewEntryBuilder() *EntryBuilder {
	return &EntryBuilder{
		ID:          uuid.New(),
		QueueNumber: 1,
		Name:        "Taro",
		Status:      queue.StatusWaiting,
		CreatedAt:   time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (b *EntryBuilder) With(mutate func(*EntryBuilder)) *EntryBuilder {
	mutate(b)
	return b
}

func (b *EntryBuilder) WithQueueNumber(n int64) *EntryBuilder {
	b.QueueNumber = n
	return b
}

func (b *EntryBuilder) WithName(name string) *EntryBuilder {
	b.Name = name
	return b
}

func (b *EntryBuilder) WithCreatedAt(t time.Time) *EntryBuilder {
	b.CreatedAt = t
	return b
}

func (b *EntryBuilder) Waiting() *EntryBuilder {
	b.Status = queue.StatusWaiting
	b.StartedAt = nil
	b.CompletedAt = nil
	return b
}

func (b *EntryBuilder) InProgressSince(started time.Time) *EntryBuilder {
	b.Status = queue.StatusInProgress
	b.StartedAt = &started
	b.CompletedAt = nil
	return b
}

func (b *EntryBuilder) CompletedBetween(started, completed time.Time) *EntryBuilder {
	b.Status = queue.StatusCompleted
	b.StartedAt = &started
	b.CompletedAt = &completed
	return b
}

func (b *EntryBuilder) Cancelled() *EntryBuilder {
	b.Status = queue.StatusCancelled
	b.CompletedAt = nil
	return b
}

// Build methods
func (b *EntryBuilder) BuildDomain() *queue.Entry {
	return queue.ReconstructEntry(b.ID, b.QueueNumber, b.Name, b.Status, b.CreatedAt, b.StartedAt, b.CompletedAt)
}

func (b *EntryBuilder) BuildView() *queries.ReservationView {
	return queries.NewReservationView(b.BuildDomain())
}

func (b *EntryBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	return reqdto.CreateReservationRequest{Name: b.Name}
}

// InProgressEntries returns n entries with consecutive queue numbers from first, all started at startedAt.
func InProgressEntries(first int64, n int, startedAt time.Time) []*queue.Entry {
	out := make([]*queue.Entry, 0, n)
	for i := range n {
		out = append(out, NewEntryBuilder().WithQueueNumber(first+int64(i)).InProgressSince(startedAt).BuildDomain())
	}
	return out
}

// WaitingEntries returns n waiting entries with consecutive queue numbers from first.
func WaitingEntries(first int64, n int) []*queue.Entry {
	out := make([]*queue.Entry, 0, n)
	for i := range n {
		out = append(out, NewEntryBuilder().WithQueueNumber(first+int64(i)).Waiting().BuildDomain())
	}
	return out
}
