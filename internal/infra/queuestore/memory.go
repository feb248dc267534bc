package queuestore

import (
	"context"
	"sync"

	"seat-queue/internal/domain/queue"
	"seat-queue/internal/pkg/clock"
	"seat-queue/internal/pkg/errs"
)

// MemoryStore keeps entries in process memory. State is lost on restart.
type MemoryStore struct {
	mu         sync.RWMutex
	entries    map[int64]*queue.Entry
	lastNumber int64
	inProgress int

	clock    clock.Clock
	capacity int
}

var _ queue.Store = (*MemoryStore)(nil)

func NewMemoryStore(clk clock.Clock, capacity int) *MemoryStore {
	return &MemoryStore{
		entries:  make(map[int64]*queue.Entry),
		clock:    clk,
		capacity: capacity,
	}
}

func (s *MemoryStore) Create(ctx context.Context, name queue.Name) (*queue.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := queue.NewEntry(s.lastNumber+1, name, s.clock.Now())
	if err != nil {
		return nil, err
	}
	s.lastNumber = entry.QueueNumber()
	s.entries[entry.QueueNumber()] = entry

	return entry.Clone(), nil
}

func (s *MemoryStore) GetByQueueNumber(ctx context.Context, queueNumber int64) (*queue.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[queueNumber]
	if !ok {
		return nil, errs.Wrapf(queue.ErrNotFound, "queue number %d", queueNumber)
	}
	return entry.Clone(), nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]*queue.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*queue.Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, entry.Clone())
	}
	return out, nil
}

func (s *MemoryStore) SetStatus(ctx context.Context, queueNumber int64, status queue.Status) (*queue.Entry, error) {
	if !status.IsValid() {
		return nil, errs.Wrapf(queue.ErrUnknownStatus, "%q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.entries[queueNumber]
	if !ok {
		return nil, errs.Wrapf(queue.ErrNotFound, "queue number %d", queueNumber)
	}

	// Work on a copy so a rejected transition leaves the stored entry untouched.
	next := current.Clone()
	if err := next.TransitionTo(status, s.clock.Now(), s.inProgress, s.capacity); err != nil {
		return nil, err
	}

	if current.IsInProgress() {
		s.inProgress--
	}
	if next.IsInProgress() {
		s.inProgress++
	}
	s.entries[queueNumber] = next

	return next.Clone(), nil
}
