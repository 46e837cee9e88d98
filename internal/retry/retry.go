// Package retry runs an operation a bounded number of times with a linearly
// growing pause between attempts.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
)

type Options struct {
	Attempts int
	Delay    time.Duration
	// IsPermanent reports errors that must not be retried.
	IsPermanent func(error) bool
	// OnRetry runs after a failed attempt that will be retried.
	OnRetry func(attempt int, err error, wait time.Duration)
}

type Option func(*Options)

func WithAttempts(n int) Option {
	return func(o *Options) { o.Attempts = n }
}

func WithDelay(d time.Duration) Option {
	return func(o *Options) { o.Delay = d }
}

func WithPermanent(fn func(error) bool) Option {
	return func(o *Options) { o.IsPermanent = fn }
}

func WithNotify(fn func(attempt int, err error, wait time.Duration)) Option {
	return func(o *Options) { o.OnRetry = fn }
}

// Permanent marks err so that Do returns it without further attempts.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// linearBackOff waits delay, 2*delay, 3*delay ... between attempts.
type linearBackOff struct {
	delay   time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.delay * time.Duration(b.attempt)
}

func (b *linearBackOff) Reset() { b.attempt = 0 }

// Do calls op until it succeeds, returns a permanent error, the attempts are
// used up or ctx is done. The error of the last attempt is returned as is.
func Do(ctx context.Context, op func(ctx context.Context) error, opts ...Option) error {
	o := Options{Attempts: DefaultAttempts, Delay: DefaultDelay}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Attempts < 1 {
		o.Attempts = 1
	}

	var b backoff.BackOff = &linearBackOff{delay: o.Delay}
	b = backoff.WithMaxRetries(b, uint64(o.Attempts-1))
	b = backoff.WithContext(b, ctx)

	attempt := 0
	operation := func() error {
		attempt++
		err := op(ctx)
		if err != nil && o.IsPermanent != nil && o.IsPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	var notify backoff.Notify
	if o.OnRetry != nil {
		notify = func(err error, wait time.Duration) {
			o.OnRetry(attempt, err, wait)
		}
	}

	return backoff.RetryNotify(operation, b, notify)
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	var result T
	err := Do(ctx, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		result = v
		return nil
	}, opts...)
	return result, err
}
