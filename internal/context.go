package internal

import (
	"context"

	"github.com/frahmantamala/workforce-admin/internal/access"
)

type ctxKey string

const ContextSessionKey ctxKey = "session"

// SessionFromContext returns the session placed by the auth middleware.
func SessionFromContext(ctx context.Context) (access.Session, bool) {
	if ctx == nil {
		return access.Session{}, false
	}
	s, ok := ctx.Value(ContextSessionKey).(access.Session)
	return s, ok
}

func ContextWithSession(ctx context.Context, s access.Session) context.Context {
	return context.WithValue(ctx, ContextSessionKey, s)
}
