package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vecdb-go/internal/apierr"
)

const requestIDKey = "request_id"

// RequestID stamps every request with a uuid, echoed back on the response,
// and carries it as a per-request context value.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-Id", id)
		c.Next()
	}
}

// RequestTimeout bounds request context lifetime to d, per SPEC_FULL.md's
// supplemented request-timeout middleware. It is advisory: handlers that
// have already started an uncancellable write will still complete, but a
// handler that checks ctx.Err() (or whose deadline expires before it
// writes a response) is reported as request_timeout.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			apiErr := apierr.RequestTimeout("request exceeded the configured timeout")
			c.AbortWithStatusJSON(statusForKind(apiErr.Kind), gin.H{"error": apiErr.Message, "kind": apiErr.Kind})
		}
	}
}

func requestIDFrom(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
