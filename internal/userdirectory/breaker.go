package userdirectory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"customer-service/pkg/platform/circuit"
	"customer-service/pkg/platform/sentinel"
)

// BreakerDirectory fails fast with sentinel.ErrUnavailable while the user
// service is considered down. Only ErrUnavailable counts as a failure; an
// absent user or a bad response does not trip the breaker.
type BreakerDirectory struct {
	next    Directory
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewBreakerDirectory(next Directory, breaker *circuit.Breaker, logger *slog.Logger) *BreakerDirectory {
	return &BreakerDirectory{next: next, breaker: breaker, logger: logger}
}

func (b *BreakerDirectory) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	if !b.breaker.Allow() {
		return nil, fmt.Errorf("user directory circuit open: %w", sentinel.ErrUnavailable)
	}
	user, err := b.next.GetUserByID(ctx, userID)
	b.record(ctx, err)
	return user, err
}

func (b *BreakerDirectory) GetAllUsers(ctx context.Context) ([]User, error) {
	if !b.breaker.Allow() {
		return nil, fmt.Errorf("user directory circuit open: %w", sentinel.ErrUnavailable)
	}
	users, err := b.next.GetAllUsers(ctx)
	b.record(ctx, err)
	return users, err
}

func (b *BreakerDirectory) record(ctx context.Context, err error) {
	if err != nil && errors.Is(err, sentinel.ErrUnavailable) {
		if _, change := b.breaker.RecordFailure(); change.Opened && b.logger != nil {
			b.logger.WarnContext(ctx, "user directory circuit opened", "breaker", b.breaker.Name())
		}
		return
	}
	if _, change := b.breaker.RecordSuccess(); change.Closed && b.logger != nil {
		b.logger.InfoContext(ctx, "user directory circuit closed", "breaker", b.breaker.Name())
	}
}
