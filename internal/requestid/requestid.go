// Package requestid carries the per-request correlation ID through a context.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the request and response header holding the ID.
const Header = "X-Request-ID"

type ctxKey struct{}

// Resolve returns incoming when it is a well-formed UUID, otherwise a fresh
// UUID v4. Arbitrary client strings never reach the logs.
func Resolve(incoming string) string {
	if incoming != "" && uuid.Validate(incoming) == nil {
		return incoming
	}
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns "" if no ID is attached.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
