package email

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/struffoli/facecard/pkg/logging"
	"github.com/struffoli/facecard/pkg/metrics"
)

// BreakerSettings tunes WithCircuitBreaker. Zero values take the defaults
// used in production: trip after 5 consecutive failures, probe after 1 minute.
type BreakerSettings struct {
	Name                string
	ConsecutiveFailures uint32
	Timeout             time.Duration
}

type breakerSender struct {
	next EmailSender
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// WithCircuitBreaker wraps next so that repeated delivery failures open the
// circuit. While open, sends fail immediately with gobreaker.ErrOpenState.
func WithCircuitBreaker(next EmailSender, s BreakerSettings) EmailSender {
	if s.Name == "" {
		s.Name = "email"
	}
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.Timeout <= 0 {
		s.Timeout = time.Minute
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("[email] circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &breakerSender{next: next, cb: cb}
}

func (b *breakerSender) SendPasswordReset(ctx context.Context, toEmail, token string) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.SendPasswordReset(ctx, toEmail, token)
	})
	return err
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
