package queue

//go:generate mockgen -source=store.go -destination=../../../tests/mock/queue/store.go -package=queuemock

import "context"

// Store is the single source of truth for entries. Implementations serialize Create and
// SetStatus against each other; the capacity check in SetStatus is evaluated atomically
// with the write. Reads return point-in-time copies.
type Store interface {
	Create(ctx context.Context, name Name) (*Entry, error)
	GetByQueueNumber(ctx context.Context, queueNumber int64) (*Entry, error)
	ListAll(ctx context.Context) ([]*Entry, error)
	SetStatus(ctx context.Context, queueNumber int64, status Status) (*Entry, error)
}
