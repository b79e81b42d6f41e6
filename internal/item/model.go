package item

import (
	"context"
	"net/http"
	"time"

	"gearshare/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "item not found")
	ErrEditingDenied        = apperror.New(http.StatusForbidden, "user is not the owner of the item")
	ErrNameRequired         = apperror.New(http.StatusBadRequest, "item name must not be empty")
	ErrDescriptionRequired  = apperror.New(http.StatusBadRequest, "item description must not be empty")
	ErrAvailabilityRequired = apperror.New(http.StatusBadRequest, "item availability must be set")
	ErrRequestNotFound      = apperror.New(http.StatusNotFound, "item request not found")
	ErrCommentTextRequired  = apperror.New(http.StatusBadRequest, "comment text must not be empty")
	ErrCommentNotAllowed    = apperror.New(http.StatusBadRequest, "item was not booked by the user")
)

// Item is a thing its owner offers for sharing.
type Item struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	Available   bool
	RequestID   *int64 // set when the item answers an item request
}

// Comment is feedback left by a user who has completed a booking of the item.
type Comment struct {
	ID         int64
	ItemID     int64
	AuthorID   int64
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// BookingRef is the booking summary shown to an item's owner.
type BookingRef struct {
	ID       int64
	BookerID int64
}

// Details is an item enriched for read endpoints: comments for everyone,
// last/next approved booking for the owner only.
type Details struct {
	Item
	Comments    []*Comment
	LastBooking *BookingRef
	NextBooking *BookingRef
}

// BookingSource exposes the booking-side lookups the item module needs.
// Implemented over the booking service; declared here to keep the
// dependency one-directional.
type BookingSource interface {
	LastForItem(ctx context.Context, itemID int64) (*BookingRef, error)
	NextForItem(ctx context.Context, itemID int64) (*BookingRef, error)
	WasBookedBy(ctx context.Context, itemID, userID int64) (bool, error)
}

// RequestDirectory answers whether an item request exists.
type RequestDirectory interface {
	Exists(ctx context.Context, requestID int64) (bool, error)
}
