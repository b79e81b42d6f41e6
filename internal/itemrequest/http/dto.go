package http

import (
	"time"

	itemHttp "gearshare/internal/item/http"
	"gearshare/internal/itemrequest"
)

type ItemRequestResponse struct {
	ID          int64                   `json:"id"`
	Description string                  `json:"description"`
	Created     time.Time               `json:"created"`
	Items       []itemHttp.ItemResponse `json:"items"`
}

func NewItemRequestResponse(d *itemrequest.Details) ItemRequestResponse {
	items := make([]itemHttp.ItemResponse, len(d.Items))
	for i, it := range d.Items {
		items[i] = itemHttp.NewItemResponse(it)
	}
	return ItemRequestResponse{
		ID:          d.ID,
		Description: d.Description,
		Created:     d.CreatedAt,
		Items:       items,
	}
}

type CreateItemRequestRequest struct {
	Description string `json:"description" binding:"required"`
}
