package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsSentinelIdentity(t *testing.T) {
	sentinel := New(http.StatusBadRequest, "unsupported search state")
	wrapped := Wrap(sentinel, http.StatusBadRequest, "Unknown state: XYZ")

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.Equal(t, "Unknown state: XYZ", wrapped.Error())

	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
}

func TestNewf(t *testing.T) {
	err := Newf(http.StatusNotFound, "booking with id = %d not found", 42)
	assert.Equal(t, "booking with id = 42 not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.Code)
}
