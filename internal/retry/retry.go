// Package retry holds the policy the coordinator applies to remote calls
// before it gives up and serves a call locally.
package retry

import (
	"context"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"github.com/sagar5412/webNotes/internal/storage"
)

// Policy bounds how often a failed remote call is attempted again.
type Policy struct {
	// MaxAttempts counts the first call. Values below 1 mean 1.
	MaxAttempts int
	// Schedule returns a fresh backoff for one logical call. Nil means no
	// delay between attempts.
	Schedule func() goretry.Backoff
	// Retryable decides which errors are worth another attempt. Nil means
	// transient remote failures only.
	Retryable func(error) bool
}

// None makes exactly one attempt.
func None() Policy {
	return Policy{MaxAttempts: 1}
}

// Constant retries with a fixed delay.
func Constant(attempts int, delay time.Duration) Policy {
	return Policy{
		MaxAttempts: attempts,
		Schedule: func() goretry.Backoff {
			return goretry.NewConstant(delay)
		},
	}
}

// Exponential retries with a doubling, jittered delay capped at maxDelay.
func Exponential(attempts int, base, maxDelay time.Duration) Policy {
	return Policy{
		MaxAttempts: attempts,
		Schedule: func() goretry.Backoff {
			b := goretry.NewExponential(base)
			b = goretry.WithJitterPercent(10, b)
			return goretry.WithCappedDuration(maxDelay, b)
		},
	}
}

// Attempts returns the effective attempt count.
func (p Policy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Do runs fn until it succeeds, fails with a non-retryable error, the
// attempts run out or ctx is done. The last error is returned unwrapped.
func (p Policy) Do(ctx context.Context, fn func(context.Context) error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = TransientRemote
	}

	var b goretry.Backoff = goretry.BackoffFunc(func() (time.Duration, bool) {
		return 0, false
	})
	if p.Schedule != nil {
		b = p.Schedule()
	}
	b = goretry.WithMaxRetries(uint64(p.Attempts()-1), b)

	return goretry.Do(ctx, b, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && retryable(err) {
			return goretry.RetryableError(err)
		}
		return err
	})
}

// TransientRemote reports whether err is a remote failure that another
// attempt could fix.
func TransientRemote(err error) bool {
	rf, ok := storage.AsRemoteFailure(err)
	return ok && rf.Transient()
}
