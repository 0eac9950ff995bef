package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOpts(maxAttempts int) RetryOptions {
	return RetryOptions{
		MaxAttempts:  maxAttempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, fastOpts(4))

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	inner := errors.New("persistent failure")
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return inner
	}, fastOpts(3))

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.ErrorIs(t, err, ErrMaxRetries)
	// The final attempt's error stays inspectable through the wrapper.
	assert.ErrorIs(t, err, inner)
}

func TestWithRetryStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	terminal := &RetryableError{Err: errors.New("bad payload"), Retryable: false}
	err := WithRetry(context.Background(), func() error {
		attempts++
		return terminal
	}, fastOpts(5))

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.NotErrorIs(t, err, ErrMaxRetries)
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := WithRetry(ctx, func() error {
		attempts++
		cancel()
		return errors.New("transient")
	}, RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithRetryDefaults(t *testing.T) {
	attempts := 0
	err := WithRetry(context.Background(), func() error {
		attempts++
		return nil
	}, RetryOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))

	wrapped := NewUserError("Unauthorized - login expired. Please log in again.", ErrUnauthorized)
	assert.Equal(t, "Unauthorized - login expired. Please log in again.", UserMessage(wrapped))
}
