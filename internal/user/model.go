package user

import (
	"net/http"

	"gearshare/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailRequired = apperror.New(http.StatusBadRequest, "email is required")
	ErrEmailExists   = apperror.New(http.StatusConflict, "email already in use")
	ErrNameRequired  = apperror.New(http.StatusBadRequest, "name is required")
)

// User owns items and initiates bookings.
type User struct {
	ID    int64
	Name  string
	Email string
}
