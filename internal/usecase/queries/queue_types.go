package queries

import (
	"time"

	"seat-queue/internal/domain/estimation"
	"seat-queue/internal/domain/queue"

	"github.com/google/uuid"
)

type ReservationView struct {
	ID          uuid.UUID  `json:"id"`
	QueueNumber int64      `json:"queue_number"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type WaitingListItem struct {
	QueueNumber int64  `json:"queue_number"`
	Name        string `json:"name"`
}

type WaitEstimateView struct {
	ReservationView
	Position             int `json:"position"`
	EstimatedWaitMinutes int `json:"estimated_wait_minutes"`
}

type WaitInfoView struct {
	QueueNumber          int64  `json:"queue_number"`
	Position             int    `json:"position"`
	EstimatedWaitMinutes int    `json:"estimated_wait_minutes"`
	CurrentStatus        string `json:"current_status"`
}

type SeatView struct {
	SeatName         string    `json:"seat_name"`
	QueueNumber      int64     `json:"queue_number"`
	Name             string    `json:"name"`
	StartedAt        time.Time `json:"started_at"`
	RemainingMinutes int       `json:"remaining_minutes"`
}

type OvertimeSeatView struct {
	SeatName        string `json:"seat_name"`
	QueueNumber     int64  `json:"queue_number"`
	Name            string `json:"name"`
	OvertimeMinutes int    `json:"overtime_minutes"`
}

type StatsView struct {
	WaitingCount         int                `json:"waiting_count"`
	InProgressCount      int                `json:"in_progress_count"`
	CompletedCount       int                `json:"completed_count"`
	CancelledCount       int                `json:"cancelled_count"`
	TodayCompletedCount  int                `json:"today_completed_count"`
	AvailableSeats       int                `json:"available_seats"`
	MaxConcurrent        int                `json:"max_concurrent"`
	SessionMinutes       int                `json:"session_duration_minutes"`
	EstimatedWaitMinutes int                `json:"estimated_wait_minutes"`
	Seats                []SeatView         `json:"seats"`
	OvertimeSeats        []OvertimeSeatView `json:"overtime_seats"`
}

func NewReservationView(e *queue.Entry) *ReservationView {
	return &ReservationView{
		ID:          e.ID(),
		QueueNumber: e.QueueNumber(),
		Name:        e.Name(),
		Status:      e.Status().String(),
		CreatedAt:   e.CreatedAt(),
		StartedAt:   e.StartedAt(),
		CompletedAt: e.CompletedAt(),
	}
}

func newStatsView(stats estimation.Stats, settings estimation.Settings) *StatsView {
	view := &StatsView{
		WaitingCount:         stats.WaitingCount,
		InProgressCount:      stats.InProgressCount,
		CompletedCount:       stats.CompletedCount,
		CancelledCount:       stats.CancelledCount,
		TodayCompletedCount:  stats.TodayCompletedCount,
		AvailableSeats:       stats.AvailableSeats,
		MaxConcurrent:        settings.MaxConcurrent,
		SessionMinutes:       int(settings.SessionDuration / time.Minute),
		EstimatedWaitMinutes: stats.EstimatedWaitMinutes,
		Seats:                make([]SeatView, 0, len(stats.Seats)),
		OvertimeSeats:        make([]OvertimeSeatView, 0, len(stats.OvertimeSeats)),
	}
	for _, s := range stats.Seats {
		view.Seats = append(view.Seats, SeatView{
			SeatName:         s.SeatName,
			QueueNumber:      s.QueueNumber,
			Name:             s.Name,
			StartedAt:        s.StartedAt,
			RemainingMinutes: s.RemainingMinutes,
		})
	}
	for _, s := range stats.OvertimeSeats {
		view.OvertimeSeats = append(view.OvertimeSeats, OvertimeSeatView(s))
	}
	return view
}
