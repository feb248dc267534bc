//go:build unit || e2e

package queuestore_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"seat-queue/internal/domain/queue"
	"seat-queue/internal/pkg/clock"
	"seat-queue/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

const testCapacity = 3

var baseTime = time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

// storeSuite holds the behaviour every queue.Store backend must share.
// Backends embed it and supply newStore.
type storeSuite struct {
	suite.Suite
	newStore func(clk clock.Clock, capacity int) queue.Store

	ctx   context.Context
	clock *clock.MockClock
	store queue.Store
}

func (s *storeSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewMockClock(baseTime)
	s.store = s.newStore(s.clock, testCapacity)
}

func (s *storeSuite) mustName(value string) queue.Name {
	name, err := queue.NewName(value)
	s.Require().NoError(err)
	return name
}

func (s *storeSuite) create(value string) *queue.Entry {
	entry, err := s.store.Create(s.ctx, s.mustName(value))
	s.Require().NoError(err)
	return entry
}

func (s *storeSuite) setStatus(n int64, status queue.Status) *queue.Entry {
	entry, err := s.store.SetStatus(s.ctx, n, status)
	s.Require().NoError(err)
	return entry
}

func (s *storeSuite) TestCreate_AssignsIncreasingNumbers() {
	first := s.create("Taro")
	s.clock.Add(time.Second)
	second := s.create("Hanako")

	s.Equal(int64(1), first.QueueNumber())
	s.Equal(int64(2), second.QueueNumber())
	s.Equal(queue.StatusWaiting, first.Status())
	s.Equal("Taro", first.Name())
	s.True(first.CreatedAt().Equal(baseTime))
	s.True(second.CreatedAt().Equal(baseTime.Add(time.Second)))
	s.Nil(first.StartedAt())
	s.Nil(first.CompletedAt())
	s.NotEqual(first.ID(), second.ID())
}

func (s *storeSuite) TestCreate_RejectsZeroName() {
	_, err := s.store.Create(s.ctx, queue.Name{})
	s.True(errs.Is(err, errs.ErrValidation))

	entries, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *storeSuite) TestCreate_NumbersAreNeverReused() {
	s.create("A")
	s.setStatus(1, queue.StatusCancelled)
	s.create("B")
	s.setStatus(2, queue.StatusInProgress)
	s.setStatus(2, queue.StatusCompleted)

	third := s.create("C")
	s.Equal(int64(3), third.QueueNumber())
}

func (s *storeSuite) TestGetByQueueNumber() {
	created := s.create("Taro")

	got, err := s.store.GetByQueueNumber(s.ctx, created.QueueNumber())
	s.Require().NoError(err)
	s.Equal(created.ID(), got.ID())
	s.Equal("Taro", got.Name())
	s.True(got.CreatedAt().Equal(created.CreatedAt()))

	_, err = s.store.GetByQueueNumber(s.ctx, 99)
	s.True(errs.Is(err, queue.ErrNotFound))
	s.True(errs.Is(err, errs.ErrNotFound))
}

func (s *storeSuite) TestListAll() {
	for i := range 5 {
		s.create(fmt.Sprintf("guest-%d", i))
	}
	s.setStatus(2, queue.StatusInProgress)

	entries, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(entries, 5)

	numbers := make([]int64, 0, len(entries))
	statuses := map[queue.Status]int{}
	for _, e := range entries {
		numbers = append(numbers, e.QueueNumber())
		statuses[e.Status()]++
	}
	sort.Slice(numbers, func(i, j int) bool { return numbers[i] < numbers[j] })
	s.Equal([]int64{1, 2, 3, 4, 5}, numbers)
	s.Equal(map[queue.Status]int{queue.StatusWaiting: 4, queue.StatusInProgress: 1}, statuses)
}

func (s *storeSuite) TestSetStatus_RoundTrip() {
	s.create("Taro")

	s.clock.Add(2 * time.Minute)
	started := s.setStatus(1, queue.StatusInProgress)
	s.Require().NotNil(started.StartedAt())
	s.True(started.StartedAt().Equal(baseTime.Add(2 * time.Minute)))
	s.Nil(started.CompletedAt())

	s.clock.Add(10 * time.Minute)
	done := s.setStatus(1, queue.StatusCompleted)
	s.Require().NotNil(done.CompletedAt())
	s.True(done.CompletedAt().Equal(baseTime.Add(12 * time.Minute)))
	s.True(done.StartedAt().Equal(*started.StartedAt()))

	got, err := s.store.GetByQueueNumber(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(queue.StatusCompleted, got.Status())
	s.False(got.StartedAt().After(*got.CompletedAt()))
}

func (s *storeSuite) TestSetStatus_CapacityGate() {
	for i := range testCapacity + 1 {
		s.create(fmt.Sprintf("guest-%d", i))
	}
	for n := int64(1); n <= testCapacity; n++ {
		s.setStatus(n, queue.StatusInProgress)
	}

	_, err := s.store.SetStatus(s.ctx, testCapacity+1, queue.StatusInProgress)
	s.True(errs.Is(err, queue.ErrCapacityExceeded))
	s.True(errs.Is(err, queue.ErrInvalidTransition))

	got, err := s.store.GetByQueueNumber(s.ctx, testCapacity+1)
	s.Require().NoError(err)
	s.Equal(queue.StatusWaiting, got.Status())
	s.Nil(got.StartedAt())

	// Cancelling an in-progress entry frees its seat.
	s.setStatus(2, queue.StatusCancelled)
	admitted := s.setStatus(testCapacity+1, queue.StatusInProgress)
	s.Equal(queue.StatusInProgress, admitted.Status())
}

func (s *storeSuite) TestSetStatus_TerminalStatesAreFinal() {
	s.create("Taro")
	s.setStatus(1, queue.StatusInProgress)
	s.setStatus(1, queue.StatusCompleted)

	_, err := s.store.SetStatus(s.ctx, 1, queue.StatusInProgress)
	s.True(errs.Is(err, queue.ErrInvalidTransition))
	s.False(errs.Is(err, queue.ErrCapacityExceeded))

	got, err := s.store.GetByQueueNumber(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(queue.StatusCompleted, got.Status())

	s.create("Jiro")
	s.setStatus(2, queue.StatusCancelled)
	_, err = s.store.SetStatus(s.ctx, 2, queue.StatusWaiting)
	s.True(errs.Is(err, queue.ErrInvalidTransition))
}

func (s *storeSuite) TestSetStatus_WaitingCannotComplete() {
	s.create("Taro")

	_, err := s.store.SetStatus(s.ctx, 1, queue.StatusCompleted)
	s.True(errs.Is(err, queue.ErrInvalidTransition))

	got, err := s.store.GetByQueueNumber(s.ctx, 1)
	s.Require().NoError(err)
	s.Nil(got.CompletedAt())
	s.Equal(queue.StatusWaiting, got.Status())
}

func (s *storeSuite) TestSetStatus_UnknownNumberAndStatus() {
	_, err := s.store.SetStatus(s.ctx, 42, queue.StatusCancelled)
	s.True(errs.Is(err, queue.ErrNotFound))

	s.create("Taro")
	_, err = s.store.SetStatus(s.ctx, 1, queue.Status("done"))
	s.True(errs.Is(err, queue.ErrUnknownStatus))
}

func (s *storeSuite) TestConcurrentCreates_AreGapFree() {
	const writers = 40

	var wg sync.WaitGroup
	numbers := make(chan int64, writers)
	failures := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name, _ := queue.NewName(fmt.Sprintf("guest-%d", i))
			entry, err := s.store.Create(s.ctx, name)
			if err != nil {
				failures <- err
				return
			}
			numbers <- entry.QueueNumber()
		}()
	}
	wg.Wait()
	close(numbers)
	close(failures)

	for err := range failures {
		s.NoError(err)
	}
	got := make([]int64, 0, writers)
	for n := range numbers {
		got = append(got, n)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	want := make([]int64, writers)
	for i := range want {
		want[i] = int64(i + 1)
	}
	s.Equal(want, got)
}

func (s *storeSuite) TestConcurrentAdmissions_NeverExceedCapacity() {
	const contenders = 10
	for i := range contenders {
		s.create(fmt.Sprintf("guest-%d", i))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		rejected int
		other    []error
	)
	for n := int64(1); n <= contenders; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.SetStatus(s.ctx, n, queue.StatusInProgress)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				admitted++
			case errs.Is(err, queue.ErrCapacityExceeded):
				rejected++
			default:
				other = append(other, err)
			}
		}()
	}
	wg.Wait()

	s.Empty(other)
	s.Equal(testCapacity, admitted)
	s.Equal(contenders-testCapacity, rejected)

	entries, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	inProgress := 0
	for _, e := range entries {
		if e.IsInProgress() {
			inProgress++
		}
	}
	s.Equal(testCapacity, inProgress)
}
