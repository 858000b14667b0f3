package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"troffee-auctioneer/internal/domain/shared"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auctioneer_storage_retries_total",
		Help: "Retried storage attempts per operation class.",
	}, []string{"operation"})

	breakerTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auctioneer_breaker_transitions_total",
		Help: "Circuit breaker state transitions per operation class.",
	}, []string{"operation", "state"})
)

// Config holds the retry and circuit breaker settings for a policy
type Config struct {
	// MaxRetries bounds the retries after the first attempt. 0 disables
	// retrying entirely.
	MaxRetries      uint64
	InitialInterval time.Duration
	Multiplier      float64
	MaxInterval     time.Duration

	// BreakerThreshold is the number of consecutive transient failures
	// after which the breaker trips open.
	BreakerThreshold uint32
	// BreakerCooldown is how long the breaker stays open before allowing
	// a half-open probe.
	BreakerCooldown time.Duration
}

// DefaultConfig mirrors the production settings: 3 retries with 2s/4s/8s
// backoff, breaker tripping after 2 consecutive failures for 20s.
func DefaultConfig() Config {
	return Config{
		MaxRetries:       3,
		InitialInterval:  2 * time.Second,
		Multiplier:       2,
		MaxInterval:      8 * time.Second,
		BreakerThreshold: 2,
		BreakerCooldown:  20 * time.Second,
	}
}

// NoRetryConfig keeps the circuit breaker but surfaces every failure on the
// first attempt. Used by call sites that must not pay retry latency.
func NoRetryConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxRetries = 0
	return cfg
}

// Policy wraps persistence operations with bounded exponential-backoff retry
// (inner) and a per-operation-class circuit breaker (outer).
//
// Failure classification drives both layers: transient storage faults are
// retried and count against the breaker; conflict and validation errors pass
// through on the first attempt and never trip the breaker, since retrying
// cannot change their outcome.
type Policy struct {
	cfg    Config
	logger zerolog.Logger

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[struct{}]
}

// New creates a policy with the given configuration
func New(cfg Config, logger zerolog.Logger) *Policy {
	return &Policy{
		cfg:      cfg,
		logger:   logger.With().Str("component", "resilience_policy").Logger(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[struct{}]),
	}
}

// Execute runs fn under the policy. The operation name identifies the
// breaker's operation class; unrelated operations fail independently.
//
// Returned errors: conflict and validation errors come back untouched,
// context cancellation comes back as the context's error, and transient
// failures that exhaust the retry budget (or find the breaker open) are
// mapped to shared.ErrInternal.
func (p *Policy) Execute(ctx context.Context, operation string, fn func(context.Context) error) error {
	cb := p.breakerFor(operation)

	_, err := cb.Execute(func() (struct{}, error) {
		return struct{}{}, p.retry(ctx, operation, fn)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		p.logger.Warn().Str("operation", operation).Msg("Circuit open, rejecting attempt")
		return fmt.Errorf("%w: %s suspended by circuit breaker", shared.ErrInternal, operation)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case shared.IsTransient(err):
		p.logger.Error().Err(err).Str("operation", operation).Msg("Retries exhausted")
		return fmt.Errorf("%w: %s", shared.ErrInternal, err)
	default:
		return err
	}
}

// retry runs fn until success, a non-transient error, context cancellation,
// or the retry budget is spent. The last transient error is returned as-is
// so the breaker can account for it.
func (p *Policy) retry(ctx context.Context, operation string, fn func(context.Context) error) error {
	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		err := fn(ctx)
		if err == nil || shared.IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	if p.cfg.MaxRetries == 0 {
		err := op()
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.cfg.InitialInterval
	b.RandomizationFactor = 0
	b.Multiplier = p.cfg.Multiplier
	b.MaxInterval = p.cfg.MaxInterval
	b.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		retriesTotal.WithLabelValues(operation).Inc()
		p.logger.Warn().
			Err(err).
			Str("operation", operation).
			Dur("backoff", wait).
			Msg("Transient failure, retrying")
	}

	return backoff.RetryNotify(op, backoff.WithContext(backoff.WithMaxRetries(b, p.cfg.MaxRetries), ctx), notify)
}

func (p *Policy) breakerFor(operation string) *gobreaker.CircuitBreaker[struct{}] {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cb, ok := p.breakers[operation]; ok {
		return cb
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        operation,
		MaxRequests: 1,
		Timeout:     p.cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= p.cfg.BreakerThreshold
		},
		// Only transient faults count against the breaker; conflicts are
		// legitimate outcomes of concurrent requests.
		IsSuccessful: func(err error) bool {
			return err == nil || !shared.IsTransient(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			breakerTransitionsTotal.WithLabelValues(name, to.String()).Inc()
			p.logger.Warn().
				Str("operation", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state change")
		},
	})
	p.breakers[operation] = cb
	return cb
}
