package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gearshare/internal/itemrequest"
	"gearshare/internal/pkg/apperror"
	"gearshare/internal/pkg/identity"
	"gearshare/internal/pkg/request"
	"gearshare/internal/pkg/response"
)

type Handler struct {
	service itemrequest.Service
}

func NewHandler(service itemrequest.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemRequestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Wrap(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	req, err := h.service.Create(c.Request.Context(), identity.CallerID(c), body.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemRequestResponse(&itemrequest.Details{ItemRequest: *req}))
}

func (h *Handler) ListOwn(c *gin.Context) {
	details, err := h.service.ListOwn(c.Request.Context(), identity.CallerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(details))
}

func (h *Handler) ListOthers(c *gin.Context) {
	from, size, err := request.Page(c, 0, 10)
	if err != nil {
		response.Error(c, err)
		return
	}

	details, err := h.service.ListOthers(c.Request.Context(), identity.CallerID(c), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(details))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := request.PathID(c, "requestId")
	if err != nil {
		response.Error(c, err)
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), id, identity.CallerID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewItemRequestResponse(d))
}

func toResponses(details []*itemrequest.Details) []ItemRequestResponse {
	responses := make([]ItemRequestResponse, len(details))
	for i, d := range details {
		responses[i] = NewItemRequestResponse(d)
	}
	return responses
}
