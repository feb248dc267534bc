package queue

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one person's place in the queue.
type Entry struct {
	id          uuid.UUID
	queueNumber int64
	name        Name
	status      Status
	createdAt   time.Time
	startedAt   *time.Time
	completedAt *time.Time
}

// NewEntry builds a freshly submitted entry. Stores assign the queue number.
func NewEntry(queueNumber int64, name Name, createdAt time.Time) (*Entry, error) {
	if name.IsZero() {
		return nil, ErrEmptyName
	}
	return &Entry{
		id:          uuid.New(),
		queueNumber: queueNumber,
		name:        name,
		status:      StatusWaiting,
		createdAt:   createdAt,
	}, nil
}

func ReconstructEntry(
	id uuid.UUID,
	queueNumber int64,
	name string,
	status Status,
	createdAt time.Time,
	startedAt, completedAt *time.Time,
) *Entry {
	return &Entry{
		id:          id,
		queueNumber: queueNumber,
		name:        Name{value: name},
		status:      status,
		createdAt:   createdAt,
		startedAt:   startedAt,
		completedAt: completedAt,
	}
}

// TransitionTo applies a status change in place. inProgress is the number of entries
// currently in progress, observed atomically with the write by the caller.
func (e *Entry) TransitionTo(to Status, at time.Time, inProgress, capacity int) error {
	rule, err := checkTransition(e.queueNumber, e.status, to, inProgress, capacity)
	if err != nil {
		return err
	}
	e.status = to
	switch rule.stamp {
	case stampStarted:
		e.startedAt = &at
	case stampCompleted:
		e.completedAt = &at
	}
	return nil
}

// Clone returns a deep copy so snapshots never alias store state.
func (e *Entry) Clone() *Entry {
	c := *e
	if e.startedAt != nil {
		t := *e.startedAt
		c.startedAt = &t
	}
	if e.completedAt != nil {
		t := *e.completedAt
		c.completedAt = &t
	}
	return &c
}

func (e *Entry) IsWaiting() bool    { return e.status == StatusWaiting }
func (e *Entry) IsInProgress() bool { return e.status == StatusInProgress }
func (e *Entry) IsCompleted() bool  { return e.status == StatusCompleted }

func (e *Entry) ID() uuid.UUID           { return e.id }
func (e *Entry) QueueNumber() int64      { return e.queueNumber }
func (e *Entry) Name() string            { return e.name.String() }
func (e *Entry) Status() Status          { return e.status }
func (e *Entry) CreatedAt() time.Time    { return e.createdAt }
func (e *Entry) StartedAt() *time.Time   { return e.startedAt }
func (e *Entry) CompletedAt() *time.Time { return e.completedAt }
