package util

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// CircuitState represents the state of the circuit breaker
type CircuitState string

const (
	CircuitStateClosed   CircuitState = "CLOSED"
	CircuitStateOpen     CircuitState = "OPEN"
	CircuitStateHalfOpen CircuitState = "HALF_OPEN"
)

func (s CircuitState) String() string {
	return string(s)
}

// CircuitBreaker stops calls to a remote after failureThreshold consecutive
// failures and lets one probe through once resetTimeout has passed.
type CircuitBreaker struct {
	state            CircuitState
	failureCount     int
	failureThreshold int
	resetTimeout     time.Duration
	nextRetryTime    time.Time
	now              func() time.Time
	logger           *zap.Logger
	mu               sync.Mutex
}

func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration, logger *zap.Logger) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 1
	}
	return &CircuitBreaker{
		state:            CircuitStateClosed,
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		now:              time.Now,
		logger:           OrNop(logger),
	}
}

// GetState returns the current state, moving OPEN to HALF_OPEN once the
// retry time has passed.
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitStateOpen && !cb.now().Before(cb.nextRetryTime) {
		cb.transitionTo(CircuitStateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) CanExecute() bool {
	return cb.GetState() != CircuitStateOpen
}

func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitStateHalfOpen {
		cb.transitionTo(CircuitStateClosed)
	}
	cb.failureCount = 0
}

func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++

	if cb.state == CircuitStateHalfOpen || cb.failureCount >= cb.failureThreshold {
		cb.nextRetryTime = cb.now().Add(cb.resetTimeout)
		if cb.state != CircuitStateOpen {
			cb.transitionTo(CircuitStateOpen)
		}
	}
}

// transitionTo must be called with mu held.
func (cb *CircuitBreaker) transitionTo(newState CircuitState) {
	oldState := cb.state
	cb.state = newState

	cb.logger.Info("Circuit breaker state transition",
		zap.String("from", oldState.String()),
		zap.String("to", newState.String()),
		zap.Int("failure_count", cb.failureCount),
	)
}
