package pkg

import "context"

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the id of the HTTP request that
// started the work, so that side effects such as published events can be
// correlated with the access log.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
