package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// policy is the resolved set of options for one Do call.
type policy struct {
	retries    int
	initial    time.Duration
	ceiling    time.Duration
	multiplier float64
	onRetry    func(attempt int, delay time.Duration, err error)
}

// Option adjusts the retry policy.
type Option func(*policy)

func newPolicy(opts []Option) policy {
	p := policy{
		retries:    5,
		initial:    time.Second,
		ceiling:    30 * time.Second,
		multiplier: 2,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// backoff yields the wait before each retry: initial, then multiplied per
// step, capped at ceiling.
type backoff struct {
	next       time.Duration
	ceiling    time.Duration
	multiplier float64
}

func (b *backoff) step() time.Duration {
	d := b.next
	b.next = min(time.Duration(float64(b.next)*b.multiplier), b.ceiling)
	return d
}

// Do calls operation until it succeeds, returns a Fatal error, the retries
// are used up or ctx is done. With n retries operation runs at most n+1
// times.
func Do(ctx context.Context, operation func(context.Context) error, opts ...Option) error {
	p := newPolicy(opts)
	wait := &backoff{next: p.initial, ceiling: p.ceiling, multiplier: p.multiplier}

	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled after %d attempts: %w", attempts, err)
		}

		err := operation(ctx)
		attempts++
		switch {
		case err == nil:
			return nil
		case IsFatal(err):
			return fmt.Errorf("fatal error (not retrying): %w", err)
		case attempts > p.retries:
			return fmt.Errorf("operation failed after %d attempts: %w", attempts, err)
		}

		delay := wait.step()
		if p.onRetry != nil {
			p.onRetry(attempts, delay, err)
		}
		if err := sleep(ctx, delay); err != nil {
			return fmt.Errorf("context cancelled after %d attempts: %w", attempts, err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// WithMaxRetries sets how many times a failed attempt is repeated. Negative
// values are ignored.
func WithMaxRetries(n int) Option {
	return func(p *policy) {
		if n >= 0 {
			p.retries = n
		}
	}
}

// WithInitialDelay sets the wait before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(p *policy) { p.initial = d }
}

// WithMaxDelay caps the wait between attempts.
func WithMaxDelay(d time.Duration) Option {
	return func(p *policy) { p.ceiling = d }
}

// WithMultiplier sets the growth factor of the wait.
func WithMultiplier(m float64) Option {
	return func(p *policy) { p.multiplier = m }
}

// WithOnRetry registers a callback invoked before each wait.
func WithOnRetry(fn func(attempt int, delay time.Duration, err error)) Option {
	return func(p *policy) { p.onRetry = fn }
}

// FatalError marks its cause as not worth retrying.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }

func (e *FatalError) Unwrap() error { return e.Err }

// Fatal wraps err so Do returns it immediately. Fatal(nil) is nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err carries a *FatalError.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}
