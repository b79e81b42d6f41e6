package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gearshare/internal/item"
	"gearshare/internal/pkg/apperror"
	"gearshare/internal/pkg/identity"
	"gearshare/internal/pkg/request"
	"gearshare/internal/pkg/response"
)

type Handler struct {
	service item.Service
}

func NewHandler(service item.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Wrap(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	i, err := h.service.Create(c.Request.Context(), item.CreateRequest{
		OwnerID:     identity.CallerID(c),
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
		RequestID:   body.RequestID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(i))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := request.PathID(c, "itemId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var body UpdateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Wrap(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	i, err := h.service.Update(c.Request.Context(), id, identity.CallerID(c), item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(i))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := request.PathID(c, "itemId")
	if err != nil {
		response.Error(c, err)
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), id, identity.CallerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemDetailsResponse(d))
}

func (h *Handler) ListOwn(c *gin.Context) {
	details, err := h.service.ListByOwner(c.Request.Context(), identity.CallerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ItemDetailsResponse, len(details))
	for i, d := range details {
		items[i] = NewItemDetailsResponse(d)
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Search(c *gin.Context) {
	found, err := h.service.Search(c.Request.Context(), c.Query("text"))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]ItemResponse, len(found))
	for i, it := range found {
		items[i] = NewItemResponse(it)
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) AddComment(c *gin.Context) {
	id, err := request.PathID(c, "itemId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var body CreateCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Wrap(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	cmt, err := h.service.AddComment(c.Request.Context(), id, identity.CallerID(c), body.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCommentResponse(cmt))
}
