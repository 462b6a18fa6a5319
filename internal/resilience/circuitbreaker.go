package resilience

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"portfolio-admin/internal/fault"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// ErrCircuitOpen is classified as a transport failure so callers report it
// the same way as an unreachable server.
var ErrCircuitOpen = fmt.Errorf("circuit breaker is open: %w", fault.ErrTransport)

var errHalfOpenBusy = fmt.Errorf("circuit breaker is half-open (probe in flight): %w", fault.ErrTransport)

type CircuitBreaker struct {
	mu            sync.Mutex
	state         State
	failureCount  int
	lastErrorTime time.Time
	threshold     int
	timeout       time.Duration
	now           func() time.Time
}

func NewCircuitBreaker(threshold int, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:     StateClosed,
		threshold: threshold,
		timeout:   timeout,
		now:       time.Now,
	}
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Execute runs action unless the breaker is open. Only retryable failures
// (transport, 5xx) count towards opening it; a 4xx means the server is up.
func (cb *CircuitBreaker) Execute(action func() error) error {
	cb.mu.Lock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastErrorTime) > cb.timeout {
			cb.state = StateHalfOpen
		} else {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
	case StateHalfOpen:
		cb.mu.Unlock()
		return errHalfOpenBusy
	}

	cb.mu.Unlock()

	err := action()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil && fault.Retryable(err) && !errors.Is(err, ErrCircuitOpen) {
		cb.failureCount++
		cb.lastErrorTime = cb.now()

		if cb.failureCount >= cb.threshold || cb.state == StateHalfOpen {
			cb.state = StateOpen
			slog.Warn("Circuit Breaker OPENED", "failures", cb.failureCount)
		}
		return err
	}

	if cb.state == StateHalfOpen {
		slog.Info("Circuit Breaker RECOVERED")
	}
	cb.failureCount = 0
	cb.state = StateClosed

	return err
}
