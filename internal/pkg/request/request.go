package request

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gearshare/internal/pkg/apperror"
)

// PathID parses a numeric path parameter.
func PathID(c *gin.Context, param string) (int64, error) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.Newf(http.StatusBadRequest, "invalid %s: %q", param, raw)
	}
	return id, nil
}

// Page parses from/size query parameters with the given defaults.
// from must be >= 0 and size >= 1.
func Page(c *gin.Context, defaultFrom, defaultSize int) (from, size int, err error) {
	from, err = queryInt(c, "from", defaultFrom)
	if err != nil || from < 0 {
		return 0, 0, apperror.New(http.StatusBadRequest, "from must be a non-negative integer")
	}
	size, err = queryInt(c, "size", defaultSize)
	if err != nil || size < 1 {
		return 0, 0, apperror.New(http.StatusBadRequest, "size must be a positive integer")
	}
	return from, size, nil
}

func queryInt(c *gin.Context, key string, defaultValue int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}
