package request

type CreateReservationRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
