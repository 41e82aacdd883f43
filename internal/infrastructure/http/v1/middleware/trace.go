package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "linkarchive/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace middleware adds request identifiers to the request context.
// Incoming X-Request-ID and X-Trace-ID headers are kept.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		req := appctx.NewRequest(c.GetHeader(HeaderRequestID))
		if traceID := c.GetHeader(HeaderTraceID); traceID != "" {
			req.TraceID = traceID
		}
		if search := c.Query("search"); search != "" {
			req.Search = search
		}

		ctx := appctx.WithRequest(c.Request.Context(), req)
		c.Request = c.Request.WithContext(ctx)

		c.Set("trace_id", req.TraceID)
		c.Set("request_id", req.RequestID)

		c.Header(HeaderRequestID, req.RequestID)
		c.Header(HeaderTraceID, req.TraceID)

		c.Next()
	}
}
