package config

import (
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// NewCircuitBreaker returns a breaker that opens after three consecutive
// failures. The open timeout depends on the dependency the name refers to.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     breakerTimeout(name),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[CRITICAL] Circuit Breaker %s: %s -> %s", name, from, to)
		},
	})
}

func breakerTimeout(name string) time.Duration {
	switch name {
	case "Redis-Auth":
		// matches the readiness probe timeout
		return 5 * time.Second
	case "Relay-PostgreSQL":
		return 10 * time.Second
	default:
		return 30 * time.Second
	}
}
