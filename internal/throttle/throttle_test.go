package throttle

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/testutil"
)

var errLimited = stderrors.New("rate limited")

func classifyLimited(hint time.Duration) Classifier {
	return func(err error, now time.Time) (time.Duration, bool) {
		if stderrors.Is(err, errLimited) {
			return hint, true
		}
		return 0, false
	}
}

// newTestLimiter returns an unthrottled limiter that records sleeps instead of sleeping
func newTestLimiter(maxRetries int, maxBackoff time.Duration, classify Classifier) (*Limiter, *[]time.Duration) {
	var sleeps []time.Duration
	l := New(Config{MaxRetries: maxRetries, MaxBackoff: maxBackoff, Classify: classify})
	l.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}
	return l, &sleeps
}

func TestDo(t *testing.T) {
	otherErr := stderrors.New("boom")

	tests := []struct {
		name       string
		failures   []error
		maxRetries int
		maxBackoff time.Duration
		hint       time.Duration
		wantErr    error
		wantCalls  int
		wantSleeps []time.Duration
	}{
		{
			name:      "succeeds first time",
			wantCalls: 1,
		},
		{
			name:      "non rate limit error is not retried",
			failures:  []error{otherErr},
			wantErr:   otherErr,
			wantCalls: 1,
		},
		{
			name:       "retries with server hint",
			failures:   []error{errLimited, errLimited},
			maxRetries: 3,
			hint:       5 * time.Second,
			wantCalls:  3,
			wantSleeps: []time.Duration{5 * time.Second, 5 * time.Second},
		},
		{
			name:       "exponential backoff without hint",
			failures:   []error{errLimited, errLimited, errLimited},
			maxRetries: 3,
			wantCalls:  4,
			wantSleeps: []time.Duration{time.Second, 2 * time.Second, 4 * time.Second},
		},
		{
			name:       "backoff is capped",
			failures:   []error{errLimited},
			maxRetries: 1,
			maxBackoff: 30 * time.Second,
			hint:       10 * time.Minute,
			wantCalls:  2,
			wantSleeps: []time.Duration{30 * time.Second},
		},
		{
			name:       "gives up after max retries",
			failures:   []error{errLimited, errLimited, errLimited},
			maxRetries: 2,
			hint:       time.Second,
			wantErr:    errLimited,
			wantCalls:  3,
			wantSleeps: []time.Duration{time.Second, time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, sleeps := newTestLimiter(tt.maxRetries, tt.maxBackoff, classifyLimited(tt.hint))

			calls := 0
			err := l.Do(context.Background(), "create_issue", func(ctx context.Context) error {
				calls++
				if calls <= len(tt.failures) {
					return tt.failures[calls-1]
				}
				return nil
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
			assert.Equal(t, tt.wantSleeps, *sleeps)
		})
	}
}

func TestDo_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l, _ := newTestLimiter(5, 0, classifyLimited(time.Second))
	l.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	err := l.Do(ctx, "add_project_item", func(context.Context) error { return errLimited })
	require.Error(t, err)
	assert.True(t, errors.IsContextError(err))
	assert.True(t, errors.IsLayer(err, "context"))
}

func TestDo_ClientTimeoutIsAnOrdinaryFailure(t *testing.T) {
	timeout := testutil.ClientTimeoutError(t)
	require.ErrorIs(t, timeout, context.DeadlineExceeded)

	consulted := false
	l, sleeps := newTestLimiter(3, 0, func(err error, now time.Time) (time.Duration, bool) {
		consulted = true
		return 0, false
	})

	calls := 0
	err := l.Do(context.Background(), "create_label", func(context.Context) error {
		calls++
		return timeout
	})
	assert.Same(t, timeout, err)
	assert.False(t, errors.IsLayer(err, "context"))
	assert.True(t, consulted)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *sleeps)
}

func TestDo_CancelledContextSkipsClassifier(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	consulted := false
	l, sleeps := newTestLimiter(3, 0, func(error, time.Time) (time.Duration, bool) {
		consulted = true
		return time.Second, true
	})

	err := l.Do(ctx, "create_issue", func(context.Context) error {
		cancel()
		return errLimited
	})
	assert.ErrorIs(t, err, errLimited)
	assert.False(t, consulted)
	assert.Empty(t, *sleeps)
}

func TestBackoff_LargeAttemptStaysBounded(t *testing.T) {
	l := New(Config{})
	want := initialBackoff << maxBackoffShift
	for _, attempt := range []int{maxBackoffShift, 40, 64, 1000} {
		wait := l.backoff(attempt, 0)
		assert.Positive(t, wait, "attempt %d", attempt)
		assert.Equal(t, want, wait, "attempt %d", attempt)
	}

	capped := New(Config{MaxBackoff: time.Minute})
	assert.Equal(t, time.Minute, capped.backoff(70, 0))
}

func TestDo_NoClassifierNeverRetries(t *testing.T) {
	l := Unlimited()
	calls := 0
	err := l.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return errLimited
	})
	assert.ErrorIs(t, err, errLimited)
	assert.Equal(t, 1, calls)
}

func TestWait_CancelledContext(t *testing.T) {
	l := New(Config{RequestsPerSecond: 0.001, Burst: 1})
	ctx, cancel := context.WithCancel(context.Background())

	// The first token is available immediately
	require.NoError(t, l.Wait(ctx))

	cancel()
	err := l.Wait(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsContextError(err))
}

func TestWait_PacesCalls(t *testing.T) {
	l := New(Config{RequestsPerSecond: 50, Burst: 1})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Wait(ctx))
	}
	// Three calls at 50/s need at least two 20ms intervals
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}
