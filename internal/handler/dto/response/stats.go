package response

import (
	"time"

	"seat-queue/internal/pkg/errs"
	"seat-queue/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type SeatResponse struct {
	SeatName         string    `json:"seat_name"`
	QueueNumber      int64     `json:"queue_number"`
	Name             string    `json:"name"`
	StartedAt        time.Time `json:"started_at"`
	RemainingMinutes int       `json:"remaining_minutes"`
}

type OvertimeSeatResponse struct {
	SeatName        string `json:"seat_name"`
	QueueNumber     int64  `json:"queue_number"`
	Name            string `json:"name"`
	OvertimeMinutes int    `json:"overtime_minutes"`
}

type StatsResponse struct {
	WaitingCount         int                    `json:"waiting_count"`
	InProgressCount      int                    `json:"in_progress_count"`
	CompletedCount       int                    `json:"completed_count"`
	CancelledCount       int                    `json:"cancelled_count"`
	TodayCompletedCount  int                    `json:"today_completed_count"`
	AvailableSeats       int                    `json:"available_seats"`
	MaxConcurrent        int                    `json:"max_concurrent"`
	SessionMinutes       int                    `json:"session_duration_minutes"`
	EstimatedWaitMinutes int                    `json:"estimated_wait_minutes"`
	Seats                []SeatResponse         `json:"seats"`
	OvertimeSeats        []OvertimeSeatResponse `json:"overtime_seats"`
}

// FromStatsView keeps empty seat lists as [] in JSON.
func FromStatsView(v *queries.StatsView) (*StatsResponse, error) {
	if v == nil {
		return nil, errs.New("stats view is nil")
	}
	res := &StatsResponse{
		WaitingCount:         v.WaitingCount,
		InProgressCount:      v.InProgressCount,
		CompletedCount:       v.CompletedCount,
		CancelledCount:       v.CancelledCount,
		TodayCompletedCount:  v.TodayCompletedCount,
		AvailableSeats:       v.AvailableSeats,
		MaxConcurrent:        v.MaxConcurrent,
		SessionMinutes:       v.SessionMinutes,
		EstimatedWaitMinutes: v.EstimatedWaitMinutes,
		Seats:                make([]SeatResponse, len(v.Seats)),
		OvertimeSeats:        make([]OvertimeSeatResponse, len(v.OvertimeSeats)),
	}
	for i := range v.Seats {
		if err := copier.Copy(&res.Seats[i], &v.Seats[i]); err != nil {
			return nil, errs.Wrap(err, "failed to map seat view")
		}
	}
	for i := range v.OvertimeSeats {
		if err := copier.Copy(&res.OvertimeSeats[i], &v.OvertimeSeats[i]); err != nil {
			return nil, errs.Wrap(err, "failed to map overtime seat view")
		}
	}
	return res, nil
}
