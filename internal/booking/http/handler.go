package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gearshare/internal/booking"
	"gearshare/internal/pkg/apperror"
	"gearshare/internal/pkg/identity"
	"gearshare/internal/pkg/request"
	"gearshare/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Wrap(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		ItemID:      body.ItemID,
		InitiatorID: identity.CallerID(c),
		Start:       body.Start,
		End:         body.End,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) ChangeStatus(c *gin.Context) {
	id, err := request.PathID(c, "bookingId")
	if err != nil {
		response.Error(c, err)
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "approved query parameter is required"))
		return
	}

	b, err := h.service.ChangeStatus(c.Request.Context(), id, approved, identity.CallerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := request.PathID(c, "bookingId")
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id, identity.CallerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) ListByInitiator(c *gin.Context) {
	h.list(c, func(state booking.SearchState, userID int64, from, size int) ([]*booking.Booking, error) {
		return h.service.ListByInitiator(c.Request.Context(), state, userID, from, size)
	})
}

func (h *Handler) ListByOwner(c *gin.Context) {
	h.list(c, func(state booking.SearchState, userID int64, from, size int) ([]*booking.Booking, error) {
		return h.service.ListByOwner(c.Request.Context(), state, userID, from, size)
	})
}

func (h *Handler) list(c *gin.Context, query func(booking.SearchState, int64, int, int) ([]*booking.Booking, error)) {
	state, err := booking.ParseSearchState(c.DefaultQuery("state", string(booking.SearchAll)))
	if err != nil {
		response.Error(c, err)
		return
	}

	from, size, err := request.Page(c, 0, 10)
	if err != nil {
		response.Error(c, err)
		return
	}

	bookings, err := query(state, identity.CallerID(c), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, items)
}
