package http

import (
	"time"

	"gearshare/internal/booking"
	itemHttp "gearshare/internal/item/http"
	userHttp "gearshare/internal/user/http"
)

// BookingResponse is a booking enriched with booker and item summaries.
type BookingResponse struct {
	ID     int64            `json:"id"`
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Status string           `json:"status"`
	Booker userHttp.UserTag `json:"booker"`
	Item   itemHttp.ItemTag `json:"item"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: string(b.Status),
		Booker: userHttp.UserTag{ID: b.InitiatorID, Name: b.InitiatorName},
		Item:   itemHttp.ItemTag{ID: b.ItemID, Name: b.ItemName},
	}
}

type CreateBookingRequest struct {
	ItemID int64     `json:"itemId" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}
