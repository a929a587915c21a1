package report

import (
	"context"
	"log"

	"geo-route-service/internal/platform/obs"

	"github.com/getsentry/sentry-go"
)

// Error captures err in Sentry with the given tags.
func Error(err error, tags map[string]string) {
	if err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		scope.SetLevel(sentry.LevelError)
		sentry.CaptureException(err)
	})
}

// Failure records an operation that degraded to a failed result: one log line, one counter
// increment and a Sentry warning. It never stops the caller.
func Failure(ctx context.Context, op string, err error) {
	if err == nil {
		return
	}

	log.Printf("req_id=%s op=%s degraded err=%v", obs.RequestID(ctx), op, err)
	obs.Failures.WithLabelValues(op).Inc()

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("op", op)
		if id := obs.RequestID(ctx); id != "" {
			scope.SetTag("req_id", id)
		}
		scope.SetLevel(sentry.LevelWarning)
		sentry.CaptureException(err)
	})
}
