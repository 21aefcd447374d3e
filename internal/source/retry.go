package source

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/avast/retry-go"
)

// RetryPolicy retries transient source failures with capped exponential
// backoff. Delays are jittered so concurrent callers do not retry in
// lockstep.
type RetryPolicy struct {
	maxAttempts uint
	baseDelay   time.Duration
	maxDelay    time.Duration

	mu   sync.Mutex
	rand *rand.Rand
}

// NewRetryPolicy creates a retry policy. maxAttempts counts the initial
// attempt, so maxAttempts=3 issues at most three calls.
func NewRetryPolicy(maxAttempts uint, baseDelay, maxDelay time.Duration) (*RetryPolicy, error) {
	if maxAttempts == 0 {
		return nil, errors.New("retry policy requires at least one attempt")
	}
	if baseDelay <= 0 {
		return nil, fmt.Errorf("retry base delay must be positive, got %s", baseDelay)
	}
	if maxDelay < baseDelay {
		maxDelay = baseDelay
	}
	return &RetryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// WithRand replaces the jitter source. Tests use a seeded source to make
// delays reproducible.
func (p *RetryPolicy) WithRand(r *rand.Rand) *RetryPolicy {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rand = r
	return p
}

// MaxAttempts returns the configured attempt cap.
func (p *RetryPolicy) MaxAttempts() uint {
	return p.maxAttempts
}

// Delay returns the backoff before retry n (zero-based): base * 2^n capped
// at the maximum, plus jitter in [0, base). Below the cap consecutive
// delays are strictly increasing because each step grows by at least the
// base delay while jitter stays under it.
func (p *RetryPolicy) Delay(n uint) time.Duration {
	delay := p.baseDelay << n
	if delay <= 0 || delay > p.maxDelay {
		delay = p.maxDelay
	}
	p.mu.Lock()
	jitter := time.Duration(p.rand.Int63n(int64(p.baseDelay)))
	p.mu.Unlock()
	return delay + jitter
}

// Do invokes fn until it succeeds, returns a non-retryable error, or the
// attempt cap is reached. The last error is returned unwrapped from the
// retry machinery so callers can inspect the source error kind.
func (p *RetryPolicy) Do(ctx context.Context, fn func() error) error {
	return retry.Do(
		func() error {
			err := fn()
			if err == nil {
				return nil
			}
			var srcErr *Error
			if errors.As(err, &srcErr) && !srcErr.Retryable() {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(p.maxAttempts),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return p.Delay(n)
		}),
	)
}
