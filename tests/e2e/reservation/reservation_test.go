//go:build e2e

package reservation_test

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"seat-queue/internal/domain/queue"
	"seat-queue/internal/handler/dto/response"
	"seat-queue/tests/common/builder"
	"seat-queue/tests/common/dbtest"
	"seat-queue/tests/common/httptest"
	"seat-queue/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const reservationsURL = "/reservations"

type ReservationSuite struct {
	e2e.SharedSuite
}

func TestReservationSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ReservationSuite))
}

func (s *ReservationSuite) create(name string) response.ReservationResponse {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL, map[string]any{"name": name})
	var res response.ReservationResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
	return res
}

func (s *ReservationSuite) setStatus(n int64, status string) *http.Response {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPatch, fmt.Sprintf("%s/%d", reservationsURL, n), map[string]any{"status": status})
	return rec.Result()
}

// =============================================================================
// Creation
// =============================================================================

func (s *ReservationSuite) TestCreate() {
	s.Run("Normal case: numbers are issued in order and the entry round-trips", func() {
		first := s.create("  Taro ")
		second := s.create("Hanako")

		s.Equal(int64(1), first.QueueNumber)
		s.Equal(int64(2), second.QueueNumber)
		s.Equal("Taro", first.Name)
		s.Equal("waiting", first.Status)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/1", nil)
		var got response.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		if diff := cmp.Diff(first, got, cmpopts.EquateApproxTime(time.Microsecond)); diff != "" {
			s.T().Errorf("round trip mismatch (-created +fetched):\n%s", diff)
		}
	})

	s.Run("Normal case: concurrent joins never share or skip a number", func() {
		const joins = 20
		var wg sync.WaitGroup
		numbers := make(chan int64, joins)
		for i := range joins {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL, map[string]any{"name": fmt.Sprintf("guest-%d", i)})
				if rec.Code == http.StatusCreated {
					var res response.ReservationResponse
					if err := httptest.DecodeJSON(rec, &res); err == nil {
						numbers <- res.QueueNumber
					}
				}
			}()
		}
		wg.Wait()
		close(numbers)

		got := make([]int64, 0, joins)
		for n := range numbers {
			got = append(got, n)
		}
		sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
		require.Len(s.T(), got, joins)
		for i, n := range got {
			s.Equal(int64(i+1), n)
		}
	})

	s.Run("Error case: blank names are rejected", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL, map[string]any{"name": "   "})
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Name is required")
		s.Equal(0, dbtest.CountByStatus(s.T(), s.DB, queue.StatusWaiting))
	})
}

// =============================================================================
// Status transitions and the capacity gate
// =============================================================================

func (s *ReservationSuite) TestStatusTransitions() {
	s.Run("Normal case: waiting -> in_progress -> completed", func() {
		s.create("Taro")

		s.Equal(http.StatusOK, s.setStatus(1, "in_progress").StatusCode)
		s.Equal(http.StatusOK, s.setStatus(1, "completed").StatusCode)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/1", nil)
		var got response.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &got)
		s.Equal("completed", got.Status)
		s.Require().NotNil(got.StartedAt)
		s.Require().NotNil(got.CompletedAt)
		s.False(got.CompletedAt.Before(*got.StartedAt))
	})

	s.Run("Error case: terminal entries cannot move", func() {
		s.create("Taro")
		s.Equal(http.StatusOK, s.setStatus(1, "cancelled").StatusCode)
		s.Equal(http.StatusConflict, s.setStatus(1, "waiting").StatusCode)
		s.Equal(http.StatusConflict, s.setStatus(1, "in_progress").StatusCode)
	})

	s.Run("Error case: unknown status and unknown number", func() {
		s.create("Taro")
		s.Equal(http.StatusBadRequest, s.setStatus(1, "done").StatusCode)
		s.Equal(http.StatusNotFound, s.setStatus(42, "cancelled").StatusCode)
	})

	s.Run("Error case: concurrent admissions never exceed the seat count", func() {
		for i := range 8 {
			s.create(fmt.Sprintf("guest-%d", i))
		}

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL+"/next", nil)
			}()
		}
		wg.Wait()

		s.LessOrEqual(dbtest.CountByStatus(s.T(), s.DB, queue.StatusInProgress), s.Config.Queue.MaxConcurrent)

		// Losers of a race get 409 even while a seat is left; fill the rest one by one.
		for range s.Config.Queue.MaxConcurrent {
			rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reservationsURL+"/next", nil)
			if rec.Code != http.StatusOK {
				httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "No seat available")
				break
			}
		}
		s.Equal(s.Config.Queue.MaxConcurrent, dbtest.CountByStatus(s.T(), s.DB, queue.StatusInProgress))
	})
}

// =============================================================================
// Estimates and stats
// =============================================================================

func (s *ReservationSuite) TestEstimates() {
	s.Run("Normal case: waits follow seat free-up times", func() {
		now := time.Now()
		// Seats free up in 3, 5 and 8 minutes.
		for i, ago := range []time.Duration{7 * time.Minute, 5 * time.Minute, 2 * time.Minute} {
			started := now.Add(-ago)
			dbtest.InsertEntry(s.T(), s.DB, builder.NewEntryBuilder().
				WithQueueNumber(int64(i+1)).
				WithCreatedAt(started.Add(-time.Minute)).
				InProgressSince(started).
				BuildDomain())
		}
		s.create("Saburo")
		s.create("Shiro")

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/waiting/estimates", nil)
		var estimates []response.ReservationWithWaitTimeResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &estimates)
		s.Require().Len(estimates, 2)
		s.Equal(int64(4), estimates[0].QueueNumber)
		s.Equal(3, estimates[0].EstimatedWaitMinutes)
		s.Equal(2, estimates[1].Position)
		s.Equal(5, estimates[1].EstimatedWaitMinutes)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, reservationsURL+"/2/wait-info", nil)
		var info response.WaitInfoResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &info)
		s.Equal(response.WaitInfoResponse{QueueNumber: 2, CurrentStatus: "in_progress"}, info)
	})

	s.Run("Normal case: stats count today's completions and seats", func() {
		now := time.Now()
		dbtest.InsertEntry(s.T(), s.DB, builder.NewEntryBuilder().
			WithQueueNumber(1).
			WithCreatedAt(now.Add(-30*time.Minute)).
			CompletedBetween(now.Add(-20*time.Minute), now.Add(-time.Minute)).
			BuildDomain())
		dbtest.InsertEntry(s.T(), s.DB, builder.NewEntryBuilder().
			WithQueueNumber(2).
			WithCreatedAt(now.Add(-20*time.Minute)).
			InProgressSince(now.Add(-11*time.Minute-30*time.Second)).
			BuildDomain())
		s.create("Saburo")

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/stats", nil)
		var stats response.StatsResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &stats)
		s.Equal(1, stats.WaitingCount)
		s.Equal(1, stats.InProgressCount)
		s.Equal(1, stats.CompletedCount)
		s.Equal(1, stats.TodayCompletedCount)
		s.Equal(2, stats.AvailableSeats)
		s.Require().Len(stats.OvertimeSeats, 1)
		s.Equal("Seat 1", stats.OvertimeSeats[0].SeatName)
		s.Equal(2, stats.OvertimeSeats[0].OvertimeMinutes)
	})
}
