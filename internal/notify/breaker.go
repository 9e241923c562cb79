package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("notifier circuit open")

// BreakerSettings configures BreakerNotifier.
type BreakerSettings struct {
	Name string
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold uint32
	// Timeout is how long the circuit stays open before a trial call.
	Timeout time.Duration
}

// BreakerNotifier guards another notifier with a circuit breaker.
type BreakerNotifier struct {
	next    Notifier
	breaker *gobreaker.CircuitBreaker[any]
}

func NewBreakerNotifier(next Notifier, settings BreakerSettings) *BreakerNotifier {
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[REMINDER] Circuit breaker %s changed from %s to %s", name, from, to)
		},
	})

	return &BreakerNotifier{next: next, breaker: breaker}
}

func (n *BreakerNotifier) Send(ctx context.Context, email, name, amount string, dueDate time.Time) error {
	_, err := n.breaker.Execute(func() (any, error) {
		return nil, n.next.Send(ctx, email, name, amount, dueDate)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	return err
}

// State reports the breaker state, e.g. "closed" or "open".
func (n *BreakerNotifier) State() string {
	return n.breaker.State().String()
}
