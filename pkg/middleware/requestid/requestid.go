package requestid

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header is echoed back on every response so callers can correlate logs.
const Header = "X-Request-ID"

const ctxKey = "requestID"

// Middleware tags each request with an ID. An ID supplied by the caller is
// kept so it survives proxy hops.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(Header))
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ctxKey, id)
		c.Writer.Header().Set(Header, id)

		c.Next()
	}
}

// Value returns the ID tagged onto the request, or "" outside the middleware.
func Value(c *gin.Context) string {
	return c.GetString(ctxKey)
}
