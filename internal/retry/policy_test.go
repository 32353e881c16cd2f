package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
)

// TestDefaultPolicy verifies the baseline default values.
func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, config.RetryBackoffExponential, p.Mode)
	assert.Equal(t, 100*time.Millisecond, p.Initial)
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, 2, p.MaxRetries)
	require.NoError(t, p.Validate())
}

// TestNewPolicyOverrides checks override precedence and clamping when initial > max.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	assert.Equal(t, 2*time.Second, p.Initial)
	assert.Equal(t, 2*time.Second, p.Max)
	assert.Equal(t, config.RetryBackoffFixed, p.Mode)
	assert.Equal(t, 5, p.MaxRetries)

	unknown := NewPolicy("bogus", 0, 0, -1)
	assert.Equal(t, DefaultPolicy(), unknown)
}

func TestFromConfig(t *testing.T) {
	p := FromConfig(config.RetryConfig{Mode: config.RetryBackoffLinear, InitialDelay: time.Second, MaxDelay: 3 * time.Second, MaxRetries: config.Int(0)})
	assert.Equal(t, config.RetryBackoffLinear, p.Mode)
	assert.Equal(t, 0, p.MaxRetries)

	assert.Equal(t, 2, FromConfig(config.RetryConfig{}).MaxRetries)
}

// TestDelayModes ensures fixed, linear, exponential behave and respect cap.
func TestDelayModes(t *testing.T) {
	fixed := NewPolicy(config.RetryBackoffFixed, 100*time.Millisecond, 500*time.Millisecond, 3)
	for i := 1; i <= 3; i++ {
		assert.Equal(t, 100*time.Millisecond, fixed.Delay(i))
	}

	linear := NewPolicy(config.RetryBackoffLinear, 100*time.Millisecond, 250*time.Millisecond, 5)
	assert.Equal(t, 100*time.Millisecond, linear.Delay(1))
	assert.Equal(t, 200*time.Millisecond, linear.Delay(2))
	assert.Equal(t, 250*time.Millisecond, linear.Delay(3))

	exp := NewPolicy(config.RetryBackoffExponential, 50*time.Millisecond, 160*time.Millisecond, 5)
	assert.Equal(t, 50*time.Millisecond, exp.Delay(1))
	assert.Equal(t, 100*time.Millisecond, exp.Delay(2))
	assert.Equal(t, 160*time.Millisecond, exp.Delay(3))
	assert.Equal(t, 160*time.Millisecond, exp.Delay(64))

	assert.Equal(t, time.Duration(0), exp.Delay(0))
}

var errTransient = errors.New("transient")

func noSleep(recorded *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*recorded = append(*recorded, d)
		return nil
	}
}

func TestRetrierDo(t *testing.T) {
	p := NewPolicy(config.RetryBackoffLinear, 10*time.Millisecond, time.Second, 2)
	retryable := func(err error) bool { return errors.Is(err, errTransient) }

	t.Run("succeeds after transient failures", func(t *testing.T) {
		var slept []time.Duration
		r := NewRetrier(p, retryable)
		r.Sleep = noSleep(&slept)

		calls := 0
		err := r.Do(context.Background(), "mkdir", func() error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, slept)
	})

	t.Run("exhausts retries", func(t *testing.T) {
		var slept []time.Duration
		r := NewRetrier(p, retryable)
		r.Sleep = noSleep(&slept)

		calls := 0
		err := r.Do(context.Background(), "mkdir", func() error { calls++; return errTransient })
		require.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
	})

	t.Run("permanent error is not retried", func(t *testing.T) {
		r := NewRetrier(p, retryable)
		permanent := errors.New("permission denied")
		calls := 0
		err := r.Do(context.Background(), "mkdir", func() error { calls++; return permanent })
		require.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("canceled context stops waiting", func(t *testing.T) {
		r := NewRetrier(NewPolicy(config.RetryBackoffFixed, time.Hour, time.Hour, 3), retryable)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		calls := 0
		err := r.Do(ctx, "mkdir", func() error { calls++; return errTransient })
		require.ErrorIs(t, err, errTransient)
		assert.Equal(t, 1, calls)
	})
}
