// Package throttle paces mutating GitHub calls with a token bucket and retries calls
// that GitHub rejected for rate limiting.
package throttle

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/chrisreddington/gh-boardkit/internal/common"
	"github.com/chrisreddington/gh-boardkit/internal/errors"
)

// Classifier reports whether err is a rate-limit rejection and how long the server asked
// the caller to wait. A zero wait means no hint was given.
type Classifier func(err error, now time.Time) (time.Duration, bool)

// Config configures a Limiter.
type Config struct {
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	MaxBackoff        time.Duration
	Classify          Classifier
	Logger            common.Logger
}

// Limiter is a token bucket with rate-limit aware retries. It is safe for concurrent use.
type Limiter struct {
	bucket     *rate.Limiter
	classify   Classifier
	maxRetries int
	maxBackoff time.Duration
	logger     common.Logger

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// initialBackoff is used when a rate-limited response carries no wait hint
const initialBackoff = time.Second

// maxBackoffShift bounds the doubling so the computed wait cannot overflow
const maxBackoffShift = 16

// New creates a Limiter from cfg
func New(cfg Config) *Limiter {
	limit := rate.Limit(cfg.RequestsPerSecond)
	if cfg.RequestsPerSecond <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		bucket:     rate.NewLimiter(limit, burst),
		classify:   cfg.Classify,
		maxRetries: cfg.MaxRetries,
		maxBackoff: cfg.MaxBackoff,
		logger:     cfg.Logger,
		sleep:      sleepContext,
		now:        time.Now,
	}
}

// Unlimited returns a Limiter that never waits and never retries
func Unlimited() *Limiter {
	return New(Config{})
}

// Wait blocks until the bucket allows one more call
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.bucket.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.ContextError("throttle_wait", ctxErr)
		}
		// The deadline would expire before a token is available
		return errors.ContextError("throttle_wait", context.DeadlineExceeded)
	}
	return nil
}

// Do runs fn once the bucket allows it, retrying up to MaxRetries times when the
// classifier reports a rate-limit rejection.
func (l *Limiter) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	for attempt := 0; ; attempt++ {
		if err := l.Wait(ctx); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		wait, limited := l.rateLimited(ctx, err)
		if !limited || attempt >= l.maxRetries {
			return err
		}

		wait = l.backoff(attempt, wait)
		l.debugLog("%s was rate limited, retrying in %s (attempt %d of %d)", operation, wait, attempt+1, l.maxRetries)
		if err := l.sleep(ctx, wait); err != nil {
			return errors.ContextError(operation, err)
		}
	}
}

// rateLimited reports whether err is worth retrying. Client timeouts are not: the
// request may have been applied before the response was lost.
func (l *Limiter) rateLimited(ctx context.Context, err error) (time.Duration, bool) {
	if l.classify == nil || ctx.Err() != nil || errors.IsLayer(err, "context") {
		return 0, false
	}
	return l.classify(err, l.now())
}

// backoff uses the server hint when there is one, otherwise doubles from initialBackoff,
// and never exceeds maxBackoff.
func (l *Limiter) backoff(attempt int, hint time.Duration) time.Duration {
	wait := hint
	if wait <= 0 {
		shift := attempt
		if shift > maxBackoffShift {
			shift = maxBackoffShift
		}
		wait = initialBackoff << shift
	}
	if l.maxBackoff > 0 && wait > l.maxBackoff {
		wait = l.maxBackoff
	}
	return wait
}

func (l *Limiter) debugLog(format string, args ...interface{}) {
	if l.logger != nil {
		l.logger.Debug(format, args...)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
