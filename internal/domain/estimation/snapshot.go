package estimation

import (
	"fmt"
	"sort"
	"time"

	"seat-queue/internal/domain/queue"
)

// Seat is the view of an in-progress entry. RemainingMinutes goes negative on overtime.
type Seat struct {
	SeatName         string
	QueueNumber      int64
	Name             string
	StartedAt        time.Time
	RemainingMinutes int

	remaining time.Duration
}

type OvertimeSeat struct {
	SeatName        string
	QueueNumber     int64
	Name            string
	OvertimeMinutes int
}

type WaitEstimate struct {
	Entry                *queue.Entry
	Position             int
	EstimatedWaitMinutes int
}

type WaitInfo struct {
	QueueNumber          int64
	Position             int
	EstimatedWaitMinutes int
	CurrentStatus        queue.Status
}

type Stats struct {
	WaitingCount         int
	InProgressCount      int
	CompletedCount       int
	CancelledCount       int
	TodayCompletedCount  int
	AvailableSeats       int
	EstimatedWaitMinutes int
	Seats                []Seat
	OvertimeSeats        []OvertimeSeat
}

type Snapshot struct {
	settings Settings
	now      time.Time

	entries        []*queue.Entry
	waiting        []*queue.Entry
	rankOf         map[int64]int
	seats          []Seat
	freeAt         []time.Duration
	counts         map[queue.Status]int
	todayCompleted int
}

func newSnapshot(settings Settings, entries []*queue.Entry, now time.Time) *Snapshot {
	s := &Snapshot{
		settings: settings,
		now:      now,
		entries:  entries,
		rankOf:   make(map[int64]int),
		counts:   make(map[queue.Status]int, 4),
	}

	var inProgress []*queue.Entry
	for _, e := range entries {
		s.counts[e.Status()]++
		switch {
		case e.IsWaiting():
			s.waiting = append(s.waiting, e)
		case e.IsInProgress():
			inProgress = append(inProgress, e)
		case e.IsCompleted():
			if s.completedToday(e) {
				s.todayCompleted++
			}
		}
	}

	sort.Slice(s.waiting, func(i, j int) bool {
		return s.waiting[i].QueueNumber() < s.waiting[j].QueueNumber()
	})
	for rank, e := range s.waiting {
		s.rankOf[e.QueueNumber()] = rank
	}

	s.seats = s.buildSeats(inProgress)
	s.freeAt = s.buildFreeTimes()
	return s
}

func (s *Snapshot) startedAt(e *queue.Entry) time.Time {
	if started := e.StartedAt(); started != nil {
		return *started
	}
	return s.now
}

func (s *Snapshot) buildSeats(inProgress []*queue.Entry) []Seat {
	sort.Slice(inProgress, func(i, j int) bool {
		a, b := s.startedAt(inProgress[i]), s.startedAt(inProgress[j])
		if !a.Equal(b) {
			return a.Before(b)
		}
		return inProgress[i].QueueNumber() < inProgress[j].QueueNumber()
	})

	seats := make([]Seat, 0, len(inProgress))
	for i, e := range inProgress {
		started := s.startedAt(e)
		remaining := s.settings.SessionDuration - s.now.Sub(started)
		seats = append(seats, Seat{
			SeatName:         fmt.Sprintf("Seat %d", i+1),
			QueueNumber:      e.QueueNumber(),
			Name:             e.Name(),
			StartedAt:        started,
			RemainingMinutes: roundAwayMinutes(remaining),
			remaining:        remaining,
		})
	}
	return seats
}

// buildFreeTimes lists, soonest first, when each of the MaxConcurrent seats frees up.
// A seat that is free now will be taken by one of the first available waiters and
// therefore frees after one full session.
func (s *Snapshot) buildFreeTimes() []time.Duration {
	capacity := s.settings.MaxConcurrent
	free := make([]time.Duration, 0, capacity)
	for _, seat := range s.seats {
		free = append(free, max(seat.remaining, 0))
	}
	sort.Slice(free, func(i, j int) bool { return free[i] < free[j] })
	if len(free) > capacity {
		free = free[:capacity]
	}
	for len(free) < capacity {
		free = append(free, s.settings.SessionDuration)
	}
	return free
}

func (s *Snapshot) completedToday(e *queue.Entry) bool {
	completed := e.CompletedAt()
	if completed == nil {
		return false
	}
	loc := s.settings.Location
	y1, m1, d1 := completed.In(loc).Date()
	y2, m2, d2 := s.now.In(loc).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (s *Snapshot) Now() time.Time {
	return s.now
}

func (s *Snapshot) Entries() []*queue.Entry {
	return s.entries
}

// WaitingList returns waiting entries in strict FIFO order.
func (s *Snapshot) WaitingList() []*queue.Entry {
	out := make([]*queue.Entry, len(s.waiting))
	copy(out, s.waiting)
	return out
}

func (s *Snapshot) OccupiedSeats() []Seat {
	out := make([]Seat, len(s.seats))
	copy(out, s.seats)
	return out
}

// OvertimeSeats reports seats past their session. They stay here until completed.
func (s *Snapshot) OvertimeSeats() []OvertimeSeat {
	out := make([]OvertimeSeat, 0)
	for _, seat := range s.seats {
		if seat.remaining >= 0 {
			continue
		}
		out = append(out, OvertimeSeat{
			SeatName:        seat.SeatName,
			QueueNumber:     seat.QueueNumber,
			Name:            seat.Name,
			OvertimeMinutes: ceilMinutes(-seat.remaining),
		})
	}
	return out
}

func (s *Snapshot) InProgressCount() int {
	return s.counts[queue.StatusInProgress]
}

func (s *Snapshot) AvailableSeats() int {
	return max(s.settings.MaxConcurrent-s.InProgressCount(), 0)
}

func (s *Snapshot) NextEligible() []*queue.Entry {
	return NextEligible(s.waiting, s.AvailableSeats())
}

// EstimatedWaitAtRank estimates the wait for the zero-based FIFO rank. Rank
// len(WaitingList()) is a hypothetical new arrival.
func (s *Snapshot) EstimatedWaitAtRank(rank int) int {
	available := s.AvailableSeats()
	if rank < available {
		return 0
	}
	capacity := s.settings.MaxConcurrent
	j := rank - available
	wait := s.freeAt[j%capacity] + time.Duration(j/capacity)*s.settings.SessionDuration
	return ceilMinutes(wait)
}

// EstimatedWaitMinutes is 0 for entries that are not waiting.
func (s *Snapshot) EstimatedWaitMinutes(e *queue.Entry) int {
	rank, ok := s.rankOf[e.QueueNumber()]
	if !ok {
		return 0
	}
	return s.EstimatedWaitAtRank(rank)
}

// Position is the 1-based FIFO rank, or 0 when the entry is not waiting.
func (s *Snapshot) Position(e *queue.Entry) int {
	rank, ok := s.rankOf[e.QueueNumber()]
	if !ok {
		return 0
	}
	return rank + 1
}

func (s *Snapshot) WaitInfo(e *queue.Entry) WaitInfo {
	return WaitInfo{
		QueueNumber:          e.QueueNumber(),
		Position:             s.Position(e),
		EstimatedWaitMinutes: s.EstimatedWaitMinutes(e),
		CurrentStatus:        e.Status(),
	}
}

func (s *Snapshot) WaitingEstimates() []WaitEstimate {
	out := make([]WaitEstimate, len(s.waiting))
	for rank, e := range s.waiting {
		out[rank] = WaitEstimate{
			Entry:                e,
			Position:             rank + 1,
			EstimatedWaitMinutes: s.EstimatedWaitAtRank(rank),
		}
	}
	return out
}

func (s *Snapshot) Stats() Stats {
	return Stats{
		WaitingCount:         s.counts[queue.StatusWaiting],
		InProgressCount:      s.counts[queue.StatusInProgress],
		CompletedCount:       s.counts[queue.StatusCompleted],
		CancelledCount:       s.counts[queue.StatusCancelled],
		TodayCompletedCount:  s.todayCompleted,
		AvailableSeats:       s.AvailableSeats(),
		EstimatedWaitMinutes: s.EstimatedWaitAtRank(len(s.waiting)),
		Seats:                s.OccupiedSeats(),
		OvertimeSeats:        s.OvertimeSeats(),
	}
}
