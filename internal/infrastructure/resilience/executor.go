package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

type ErrorClassification struct {
	Retryable     bool
	RecordFailure bool
}

type ErrorClassifier func(err error) ErrorClassification

// Executor wraps external calls with a shared response cache, retry with
// jittered exponential backoff, and an optional per-operation circuit
// breaker. The final retry failure is propagated to the caller unchanged.
type Executor struct {
	cfg    Config
	cache  Cache
	jitter func() float64

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewExecutor(cfg Config, cache Cache) *Executor {
	cfg = cfg.normalize()
	if cache == nil {
		cache = NewMemoryCache(cfg.CacheTTL, SystemClock)
	}
	return &Executor{
		cfg:      cfg,
		cache:    cache,
		jitter:   rand.Float64,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

// CacheKey builds a deterministic key from an operation name and its
// serialized parameters.
func CacheKey(operation string, params ...string) string {
	if len(params) == 0 {
		return operation
	}
	return operation + ":" + strings.Join(params, ":")
}

// Execute runs fn under the executor's retry and breaker policy. With a
// non-empty cacheKey, a live cached response short-circuits the call and a
// success is stored before returning.
func Execute[T any](
	ctx context.Context,
	e *Executor,
	operation string,
	cacheKey string,
	fn func(context.Context) (T, error),
	classifier ErrorClassifier,
) (T, error) {
	var zero T
	if fn == nil {
		return zero, fmt.Errorf("resilience: operation callback is nil")
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if classifier == nil {
		classifier = defaultClassifier
	}

	if cacheKey != "" {
		if cached, ok := e.cache.Get(cacheKey); ok {
			if value, ok := cached.(T); ok {
				slog.Debug("cache_hit", "operation", op, "cache_key", cacheKey)
				return value, nil
			}
		}
	}

	call := func() (T, error) {
		return executeWithRetry(ctx, e, op, fn, classifier)
	}

	var value T
	var err error
	if e.cfg.BreakerEnabled {
		breaker := e.circuitBreaker(op, classifier)
		var result any
		result, err = breaker.Execute(func() (any, error) {
			return call()
		})
		if err == nil {
			value, _ = result.(T)
		}
	} else {
		value, err = call()
	}
	if err != nil {
		return zero, err
	}

	if cacheKey != "" {
		e.cache.Put(cacheKey, value)
	}
	return value, nil
}

func executeWithRetry[T any](
	ctx context.Context,
	e *Executor,
	operation string,
	fn func(context.Context) (T, error),
	classifier ErrorClassifier,
) (T, error) {
	var zero T
	maxAttempts := e.cfg.RetryMaxAttempts

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		value, err := fn(ctx)
		if err == nil {
			return value, nil
		}

		class := classifier(err)
		if !class.Retryable || attempt == maxAttempts-1 {
			return zero, err
		}

		wait := e.backoffDelay(attempt)
		slog.Warn("retry_attempt",
			"operation", operation,
			"attempt", attempt+1,
			"max_attempts", maxAttempts,
			"backoff_ms", float64(wait.Microseconds())/1000.0,
			"error", err,
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, err
		case <-timer.C:
		}
	}

	return zero, nil
}

// backoffDelay computes the wait after the n-th failed attempt (n from 0):
// base * 2^n scaled by a jitter factor in [0.5, 1.5), capped at the
// configured maximum.
func (e *Executor) backoffDelay(attempt int) time.Duration {
	exp := float64(int64(1) << uint(attempt))
	factor := 0.5 + e.jitter()
	wait := time.Duration(exp * factor * float64(e.cfg.RetryBaseDelay))
	if wait > e.cfg.RetryMaxBackoff {
		wait = e.cfg.RetryMaxBackoff
	}
	return wait
}

func (e *Executor) circuitBreaker(operation string, classifier ErrorClassifier) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if breaker, ok := e.breakers[operation]; ok {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        operation,
		MaxRequests: e.cfg.BreakerHalfOpenMaxCalls,
		Timeout:     e.cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= e.cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			class := classifier(err)
			return !class.RecordFailure
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	e.breakers[operation] = breaker
	return breaker
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func defaultClassifier(error) ErrorClassification {
	return ErrorClassification{
		Retryable:     false,
		RecordFailure: true,
	}
}
