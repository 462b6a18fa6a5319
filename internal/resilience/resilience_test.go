package resilience

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-admin/internal/fault"
)

var (
	errDown     = fmt.Errorf("dial: %w", fault.ErrTransport)
	errRejected = &fault.StatusError{Method: "POST", Path: "/products", StatusCode: 400}
	errBroken   = &fault.StatusError{Method: "GET", Path: "/products", StatusCode: 502}
)

func TestRetryStopsOnSuccess(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return errDown
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return errRejected
	})
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, errRejected)
}

func TestRetryExhausted(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return errBroken
	})
	assert.Equal(t, 3, calls)
	assert.Equal(t, fault.KindStatus, fault.KindOf(err))
}

func TestRetrySingleAttemptReturnsRawError(t *testing.T) {
	err := Retry(context.Background(), 0, time.Millisecond, func() error { return errDown })
	assert.Equal(t, errDown, err)
}

func TestRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 3, time.Hour, func() error {
		calls++
		cancel()
		return errDown
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Minute)

	assert.ErrorIs(t, cb.Execute(func() error { return errDown }), fault.ErrTransport)
	assert.Equal(t, StateClosed, cb.State())
	assert.Error(t, cb.Execute(func() error { return errBroken }))
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, fault.KindTransport, fault.KindOf(err))
	assert.False(t, called)
}

func TestCircuitBreakerIgnoresClientErrors(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Minute)
	assert.ErrorIs(t, cb.Execute(func() error { return errRejected }), errRejected)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerRecovers(t *testing.T) {
	cb := NewCircuitBreaker(1, time.Second)
	now := time.Now()
	cb.now = func() time.Time { return now }

	_ = cb.Execute(func() error { return errDown })
	require.Equal(t, StateOpen, cb.State())

	now = now.Add(2 * time.Second)
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}
