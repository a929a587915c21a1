package services

import (
	"context"

	"geo-route-service/internal/domain"
	"geo-route-service/internal/platform/report"
)

// degrade records an expected external failure and converts it into a failed result.
func degrade[T any](ctx context.Context, op string, err error) domain.Result[T] {
	report.Failure(ctx, op, err)
	return domain.Fail[T](err)
}
