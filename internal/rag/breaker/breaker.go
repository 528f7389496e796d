// Package breaker wraps calls to the hosted model APIs in a circuit breaker
// so a dead provider fails fast instead of being hit once per chunk.
package breaker

import (
	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"github.com/sony/gobreaker"
)

type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

func New(name string) *Breaker {
	logger := logger_i.NewLogger("breaker").With("name", name)
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     config.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.BreakerConsecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "from", from.String(), "to", to.String())
		},
	})
	return &Breaker{cb: cb}
}

// Do runs fn through b. A nil breaker runs fn directly.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}
	res, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func (b *Breaker) State() string {
	if b == nil {
		return gobreaker.StateClosed.String()
	}
	return b.cb.State().String()
}
