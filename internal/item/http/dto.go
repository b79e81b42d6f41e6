package http

import (
	"time"

	"gearshare/internal/item"
)

type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId,omitempty"`
}

func NewItemResponse(i *item.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		RequestID:   i.RequestID,
	}
}

// ItemTag is the denormalized item summary embedded in other responses.
type ItemTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingRefResponse struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

func NewCommentResponse(cmt *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         cmt.ID,
		Text:       cmt.Text,
		AuthorName: cmt.AuthorName,
		Created:    cmt.CreatedAt,
	}
}

// ItemDetailsResponse carries comments for every viewer and last/next
// booking summaries for the owner.
type ItemDetailsResponse struct {
	ItemResponse
	Comments    []CommentResponse   `json:"comments"`
	LastBooking *BookingRefResponse `json:"lastBooking,omitempty"`
	NextBooking *BookingRefResponse `json:"nextBooking,omitempty"`
}

func NewItemDetailsResponse(d *item.Details) ItemDetailsResponse {
	resp := ItemDetailsResponse{
		ItemResponse: NewItemResponse(&d.Item),
		Comments:     make([]CommentResponse, 0, len(d.Comments)),
	}
	for _, cmt := range d.Comments {
		resp.Comments = append(resp.Comments, NewCommentResponse(cmt))
	}
	if d.LastBooking != nil {
		resp.LastBooking = &BookingRefResponse{ID: d.LastBooking.ID, BookerID: d.LastBooking.BookerID}
	}
	if d.NextBooking != nil {
		resp.NextBooking = &BookingRefResponse{ID: d.NextBooking.ID, BookerID: d.NextBooking.BookerID}
	}
	return resp
}

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}
