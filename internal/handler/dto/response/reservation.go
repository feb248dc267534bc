package response

import (
	"time"

	"seat-queue/internal/pkg/errs"
	"seat-queue/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ReservationResponse struct {
	ID          uuid.UUID  `json:"id"`
	QueueNumber int64      `json:"queue_number"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type WaitingListResponse struct {
	QueueNumber int64  `json:"queue_number"`
	Name        string `json:"name"`
}

type ReservationWithWaitTimeResponse struct {
	ReservationResponse
	Position             int `json:"position"`
	EstimatedWaitMinutes int `json:"estimated_wait_minutes"`
}

type WaitInfoResponse struct {
	QueueNumber          int64  `json:"queue_number"`
	Position             int    `json:"position"`
	EstimatedWaitMinutes int    `json:"estimated_wait_minutes"`
	CurrentStatus        string `json:"current_status"`
}

func FromReservationView(v *queries.ReservationView) (*ReservationResponse, error) {
	res := &ReservationResponse{}
	if err := copier.Copy(res, v); err != nil {
		return nil, errs.Wrap(err, "failed to map reservation view")
	}
	return res, nil
}

func FromReservationViews(vs []*queries.ReservationView) ([]*ReservationResponse, error) {
	out := make([]*ReservationResponse, len(vs))
	for i, v := range vs {
		res, err := FromReservationView(v)
		if err != nil {
			return nil, err
		}
		out[i] = res
	}
	return out, nil
}

func FromWaitingListItems(items []*queries.WaitingListItem) []*WaitingListResponse {
	out := make([]*WaitingListResponse, len(items))
	for i, item := range items {
		out[i] = &WaitingListResponse{QueueNumber: item.QueueNumber, Name: item.Name}
	}
	return out
}

func FromWaitEstimateViews(vs []*queries.WaitEstimateView) ([]*ReservationWithWaitTimeResponse, error) {
	out := make([]*ReservationWithWaitTimeResponse, len(vs))
	for i, v := range vs {
		if v == nil {
			return nil, errs.Newf("wait estimate view %d is nil", i)
		}
		res, err := FromReservationView(&v.ReservationView)
		if err != nil {
			return nil, err
		}
		out[i] = &ReservationWithWaitTimeResponse{
			ReservationResponse:  *res,
			Position:             v.Position,
			EstimatedWaitMinutes: v.EstimatedWaitMinutes,
		}
	}
	return out, nil
}

func FromWaitInfoView(v *queries.WaitInfoView) (*WaitInfoResponse, error) {
	res := &WaitInfoResponse{}
	if err := copier.Copy(res, v); err != nil {
		return nil, errs.Wrap(err, "failed to map wait info view")
	}
	return res, nil
}
