package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Observer receives the outcome of every transactional operation.
type Observer interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type operationKey struct{}

// withOperation tags ctx with a fresh operation id.
func withOperation(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, operationKey{}, id), id
}

// OperationID returns the id set by the running usecase, or "".
func OperationID(ctx context.Context) string {
	id, _ := ctx.Value(operationKey{}).(string)
	return id
}

func loggerFor(ctx context.Context, log *zap.Logger) *zap.Logger {
	if id := OperationID(ctx); id != "" {
		return log.With(zap.String("op_id", id))
	}
	return log
}

func observe(ctx context.Context, o Observer, operation string, start time.Time, err error) {
	if o == nil {
		return
	}
	o.Observe(ctx, operation, err == nil, time.Since(start))
}
