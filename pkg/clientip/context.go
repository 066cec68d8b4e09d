package clientip

import "context"

type contextKey struct{}

// WithIP stores the client IP in the context.
func WithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the stored client IP, or "" when the middleware did
// not run.
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}
