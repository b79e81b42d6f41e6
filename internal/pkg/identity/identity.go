// Package identity resolves the calling user from the X-Sharer-User-Id
// header. There is no authentication beyond this; callers simply declare
// who they are.
package identity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gearshare/internal/pkg/response"
)

// Header carries the caller's user id.
const Header = "X-Sharer-User-Id"

const contextKey = "sharerUserID"

// Required parses the identity header and aborts with 400 when it is
// missing or malformed.
func Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(Header)
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				response.ErrorResponse{Error: Header + " header is required"})
			return
		}
		c.Set(contextKey, id)
		c.Next()
	}
}

// CallerID returns the caller's user id or 0 when the Required middleware
// did not run.
func CallerID(c *gin.Context) int64 {
	if v, ok := c.Get(contextKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
