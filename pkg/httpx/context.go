package httpx

import (
	"context"
	"errors"
)

type ctxKey string

const ctxKeySubject ctxKey = "subject"

var errTrailingData = errors.New("httpx: trailing data after JSON body")

// WithSubject records the authenticated subject for request scoped helpers
// such as per-user rate limiting.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, ctxKeySubject, subject)
}

// SubjectFromContext returns the subject set by WithSubject.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxKeySubject).(string)
	return s, ok && s != ""
}
