package api

import (
	"net/http"
	"strconv"

	"seat-queue/internal/domain/queue"
	reqdto "seat-queue/internal/handler/dto/request"
	resdto "seat-queue/internal/handler/dto/response"
	"seat-queue/internal/handler/httperr"
	"seat-queue/internal/pkg/errs"
	"seat-queue/internal/usecase/commands"
	"seat-queue/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type QueueHandler struct {
	cmd commands.QueueCommands
	q   queries.QueueQueries
}

func NewQueueHandler(cmd commands.QueueCommands, q queries.QueueQueries) *QueueHandler {
	return &QueueHandler{cmd: cmd, q: q}
}

// @Summary Join the queue
// @Description Issue the next queue number for a visitor
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reqdto.CreateReservationRequest true "Visitor name"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Router /reservations [post]
func (h *QueueHandler) Create(c *gin.Context) {
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.cmd.Create(c.Request.Context(), req.Name)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	c.Header("Location", "/reservations/"+strconv.FormatInt(view.QueueNumber, 10))
	res, err := resdto.FromReservationView(view)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary List reservations
// @Description Every reservation ordered by queue number
// @Tags reservations
// @Produce json
// @Success 200 {array} resdto.ReservationResponse
// @Router /reservations [get]
func (h *QueueHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context())
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	res, err := resdto.FromReservationViews(views)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Get reservation
// @Tags reservations
// @Produce json
// @Param queue_number path int true "Queue number"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{queue_number} [get]
func (h *QueueHandler) Get(c *gin.Context) {
	n, ok := queueNumberParam(c)
	if !ok {
		return
	}
	view, err := h.q.Get(c.Request.Context(), n)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	res, err := resdto.FromReservationView(view)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Change reservation status
// @Description waiting -> in_progress | cancelled, in_progress -> completed | cancelled
// @Tags reservations
// @Accept json
// @Produce json
// @Param queue_number path int true "Queue number"
// @Param request body reqdto.UpdateStatusRequest true "New status"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/{queue_number} [patch]
func (h *QueueHandler) UpdateStatus(c *gin.Context) {
	n, ok := queueNumberParam(c)
	if !ok {
		return
	}
	var req reqdto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.cmd.SetStatus(c.Request.Context(), n, req.Status)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	res, err := resdto.FromReservationView(view)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Waiting list
// @Description Waiting visitors in call order
// @Tags queue
// @Produce json
// @Success 200 {array} resdto.WaitingListResponse
// @Router /reservations/waiting/list [get]
func (h *QueueHandler) WaitingList(c *gin.Context) {
	items, err := h.q.WaitingList(c.Request.Context())
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWaitingListItems(items))
}

// @Summary Waiting list with estimates
// @Tags queue
// @Produce json
// @Success 200 {array} resdto.ReservationWithWaitTimeResponse
// @Router /reservations/waiting/estimates [get]
func (h *QueueHandler) WaitingEstimates(c *gin.Context) {
	views, err := h.q.WaitingEstimates(c.Request.Context())
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	res, err := resdto.FromWaitEstimateViews(views)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Wait information for one reservation
// @Tags queue
// @Produce json
// @Param queue_number path int true "Queue number"
// @Success 200 {object} resdto.WaitInfoResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /reservations/{queue_number}/wait-info [get]
func (h *QueueHandler) WaitInfo(c *gin.Context) {
	n, ok := queueNumberParam(c)
	if !ok {
		return
	}
	info, err := h.q.WaitInfo(c.Request.Context(), n)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	res, err := resdto.FromWaitInfoView(info)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Who to call next
// @Description Advisory list of waiting visitors that fit in the free seats
// @Tags queue
// @Produce json
// @Success 200 {array} resdto.ReservationResponse
// @Router /reservations/next [get]
func (h *QueueHandler) NextEligible(c *gin.Context) {
	views, err := h.q.NextEligible(c.Request.Context())
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	res, err := resdto.FromReservationViews(views)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Seat the next visitor
// @Description Moves the head of the waiting list into a free seat
// @Tags queue
// @Produce json
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /reservations/next [post]
func (h *QueueHandler) AdmitNext(c *gin.Context) {
	view, err := h.cmd.AdmitNext(c.Request.Context())
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	res, err := resdto.FromReservationView(view)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Queue statistics
// @Tags queue
// @Produce json
// @Success 200 {object} resdto.StatsResponse
// @Router /stats [get]
func (h *QueueHandler) Stats(c *gin.Context) {
	stats, err := h.q.Stats(c.Request.Context())
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	res, err := resdto.FromStatsView(stats)
	if err != nil {
		abortWithQueueError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func queueNumberParam(c *gin.Context) (int64, bool) {
	n, err := strconv.ParseInt(c.Param("queue_number"), 10, 64)
	if err != nil || n <= 0 {
		if err == nil {
			err = errs.Newf("queue number %d out of range", n)
		}
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid queue number", nil)
		return 0, false
	}
	return n, true
}

func abortWithQueueError(c *gin.Context, err error) {
	switch {
	case errs.Is(err, queue.ErrEmptyName):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Name is required", nil)
	case errs.Is(err, queue.ErrNameTooLong):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Name is too long", gin.H{"max_length": queue.MaxNameLength})
	case errs.Is(err, queue.ErrUnknownStatus):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid status", gin.H{"allowed": queue.AllStatuses()})
	case errs.Is(err, errs.ErrValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
	case errs.Is(err, commands.ErrNobodyWaiting):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Nobody is waiting", nil)
	case errs.Is(err, errs.ErrNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
	case errs.Is(err, queue.ErrCapacityExceeded):
		httperr.AbortWithError(c, http.StatusConflict, err, "No seat available", nil)
	case errs.Is(err, errs.ErrInvalidTransition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Invalid status transition", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
