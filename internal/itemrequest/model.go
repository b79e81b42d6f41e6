package itemrequest

import (
	"net/http"
	"time"

	"gearshare/internal/item"
	"gearshare/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "item request not found")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "request description must not be empty")
)

// ItemRequest is a wish for an item that does not exist yet; owners may
// answer it by creating items linked to it.
type ItemRequest struct {
	ID          int64
	RequesterID int64
	Description string
	CreatedAt   time.Time
}

// Details is a request together with the items answering it.
type Details struct {
	ItemRequest
	Items []*item.Item
}
