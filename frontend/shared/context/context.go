package context

import (
	"context"

	"retailenroll/infrastructure/enrollment"
)

type sessionKey struct{}

func NewContextWithSession(ctx context.Context, session *enrollment.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func GetSessionFromContext(ctx context.Context) (*enrollment.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*enrollment.Session)
	return s, ok && s != nil
}
