package booking

import (
	"net/http"
	"time"

	"gearshare/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "booking not found")
	ErrUserNotFound    = apperror.New(http.StatusNotFound, "user not found")
	ErrInvalidPeriod   = apperror.New(http.StatusBadRequest, "invalid booking period")
	ErrConflict        = apperror.New(http.StatusConflict, "booking period overlaps an approved booking")
	ErrAlreadyDecided  = apperror.New(http.StatusBadRequest, "booking is already decided")
	ErrItemUnavailable = apperror.New(http.StatusBadRequest, "item is unavailable for booking")

	// An owner booking their own item is reported exactly like a missing
	// item, so the response does not confirm ownership to anyone probing.
	ErrOwnerSelfBooking = apperror.New(http.StatusNotFound, "item not found")

	ErrUnsupportedState = apperror.New(http.StatusBadRequest, "unsupported search state")
)

// Status is the booking lifecycle state.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Booking reserves an item for the interval [Start, End], endpoints
// included. ItemName, InitiatorName and OwnerID are denormalized from
// the item and user records at load time.
type Booking struct {
	ID            int64
	ItemID        int64
	ItemName      string
	InitiatorID   int64
	InitiatorName string
	OwnerID       int64
	Start         time.Time
	End           time.Time
	Status        Status
}

// SearchState selects which temporal slice of bookings a search returns.
type SearchState string

const (
	SearchAll      SearchState = "ALL"
	SearchCurrent  SearchState = "CURRENT"
	SearchPast     SearchState = "PAST"
	SearchFuture   SearchState = "FUTURE"
	SearchWaiting  SearchState = "WAITING"
	SearchRejected SearchState = "REJECTED"
)

// ParseSearchState validates a raw state token. Unknown tokens are
// reported back verbatim for diagnostics.
func ParseSearchState(token string) (SearchState, error) {
	switch SearchState(token) {
	case SearchAll, SearchCurrent, SearchPast, SearchFuture, SearchWaiting, SearchRejected:
		return SearchState(token), nil
	default:
		return "", apperror.Wrap(ErrUnsupportedState, http.StatusBadRequest, "Unknown state: "+token)
	}
}

// Viewpoint scopes a search to bookings a user initiated or to bookings
// on items a user owns.
type Viewpoint string

const (
	ViewpointInitiator Viewpoint = "initiator"
	ViewpointOwner     Viewpoint = "owner"
)

// SearchQuery is the fully resolved repository query: state and viewpoint
// filters, a pinned evaluation instant, and limit/offset pagination.
type SearchQuery struct {
	State     SearchState
	UserID    int64
	Viewpoint Viewpoint
	Limit     int
	Offset    int
	Now       time.Time
}

// ItemInfo is the slice of an item the booking core needs.
type ItemInfo struct {
	ID        int64
	OwnerID   int64
	Name      string
	Available bool
}

// UserInfo is the slice of a user the booking core needs.
type UserInfo struct {
	ID   int64
	Name string
}
