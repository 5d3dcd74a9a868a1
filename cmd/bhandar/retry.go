package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"connectrpc.com/connect"
	"github.com/cenkalti/backoff/v4"
)

// retryPolicy retries calls that failed because the daemon could not be
// reached. Every other error is returned as is.
type retryPolicy struct {
	maxRetries uint64
	// timeout bounds each attempt; zero means no bound
	timeout    time.Duration
	newBackOff func() backoff.BackOff
	notify     io.Writer
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}

func retryable(err error) bool {
	var cerr *connect.Error
	if !errors.As(err, &cerr) {
		return false
	}
	return cerr.Code() == connect.CodeUnavailable
}

func (p retryPolicy) do(ctx context.Context, name string, fn func(context.Context) error) error {
	newBackOff := p.newBackOff
	if newBackOff == nil {
		newBackOff = defaultBackOff
	}
	b := backoff.WithContext(backoff.WithMaxRetries(newBackOff(), p.maxRetries), ctx)

	return backoff.RetryNotify(
		func() error {
			err := p.attempt(ctx, fn)
			if err != nil && !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		},
		b,
		func(err error, next time.Duration) {
			if p.notify != nil {
				fmt.Fprintf(p.notify, "%s: %v, retrying in %s\n", name, err, next.Round(time.Millisecond))
			}
		},
	)
}

func (p retryPolicy) attempt(ctx context.Context, fn func(context.Context) error) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return fn(ctx)
}
