package app

import (
	"context"

	"gearshare/internal/booking"
	"gearshare/internal/item"
	"gearshare/internal/itemrequest"
	"gearshare/internal/user"
)

// The domain packages consume each other through small interfaces they
// declare themselves. The adapters below satisfy those interfaces so the
// packages never import one another directly.

type userDirectory struct {
	users user.Service
}

func (d userDirectory) Exists(ctx context.Context, userID int64) (bool, error) {
	return d.users.ExistsByID(ctx, userID)
}

func (d userDirectory) Get(ctx context.Context, userID int64) (*booking.UserInfo, error) {
	u, err := d.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &booking.UserInfo{ID: u.ID, Name: u.Name}, nil
}

type itemDirectory struct {
	items item.Repository
}

func (d itemDirectory) Info(ctx context.Context, itemID int64) (*booking.ItemInfo, error) {
	i, err := d.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &booking.ItemInfo{
		ID:        i.ID,
		OwnerID:   i.OwnerID,
		Name:      i.Name,
		Available: i.Available,
	}, nil
}

// bookingSource and requestDirectory close the item<->booking and
// item<->request loops. Their targets are assigned after all services
// are constructed; the zero value is never called before then.

type bookingSource struct {
	bookings booking.Service
}

func (a *bookingSource) LastForItem(ctx context.Context, itemID int64) (*item.BookingRef, error) {
	return a.ref(a.bookings.LastForItem(ctx, itemID))
}

func (a *bookingSource) NextForItem(ctx context.Context, itemID int64) (*item.BookingRef, error) {
	return a.ref(a.bookings.NextForItem(ctx, itemID))
}

func (a *bookingSource) WasBookedBy(ctx context.Context, itemID, userID int64) (bool, error) {
	return a.bookings.WasBookedBy(ctx, itemID, userID)
}

func (a *bookingSource) ref(b *booking.Booking, err error) (*item.BookingRef, error) {
	if err != nil || b == nil {
		return nil, err
	}
	return &item.BookingRef{ID: b.ID, BookerID: b.InitiatorID}, nil
}

type requestDirectory struct {
	requests itemrequest.Service
}

func (a *requestDirectory) Exists(ctx context.Context, requestID int64) (bool, error) {
	return a.requests.Exists(ctx, requestID)
}
