// Package context carries request-scoped values: trace identifiers and the
// search text being served.
package context

import (
	"context"

	"github.com/google/uuid"
)

// Request holds per-request identifiers.
type Request struct {
	TraceID   string
	SpanID    string
	RequestID string
	Search    string
}

type requestKey struct{}

// WithRequest adds Request to context.
func WithRequest(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// GetRequest returns Request from context.
func GetRequest(ctx context.Context) *Request {
	if v, ok := ctx.Value(requestKey{}).(*Request); ok {
		return v
	}
	return nil
}

// WithSearch returns a context whose Request carries query. The stored
// Request is copied, never modified.
func WithSearch(ctx context.Context, query string) context.Context {
	req := Request{}
	if cur := GetRequest(ctx); cur != nil {
		req = *cur
	}
	req.Search = query
	return WithRequest(ctx, &req)
}

// GetTraceID returns trace ID from context or generates new one.
func GetTraceID(ctx context.Context) string {
	if r := GetRequest(ctx); r != nil && r.TraceID != "" {
		return r.TraceID
	}
	return uuid.New().String()
}

// GetRequestID returns request ID from context or empty string.
func GetRequestID(ctx context.Context) string {
	if r := GetRequest(ctx); r != nil {
		return r.RequestID
	}
	return ""
}

// NewRequest creates a Request with generated IDs. An empty requestID is
// replaced by a fresh one.
func NewRequest(requestID string) *Request {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &Request{
		TraceID:   uuid.New().String(),
		SpanID:    uuid.New().String()[:16],
		RequestID: requestID,
	}
}
