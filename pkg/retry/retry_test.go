package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoWithResult_SucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := DoWithResult(context.Background(), fastConfig(), func() (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, calls)
}

func TestDoWithResult_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	result, err := DoWithResult(context.Background(), fastConfig(), func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("connection refused")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestDoWithResult_ExhaustsRetries(t *testing.T) {
	calls := 0
	wantErr := errors.New("dial tcp: i/o timeout")
	_, err := DoWithResult(context.Background(), fastConfig(), func() (int, error) {
		calls++
		return 0, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 4, calls) // initial attempt + 3 retries
}

func TestDoWithResult_PermanentErrorFailsFast(t *testing.T) {
	calls := 0
	wantErr := errors.New("password authentication failed")
	_, err := DoWithResult(context.Background(), fastConfig(), func() (int, error) {
		calls++
		return 0, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}

func TestDoWithResult_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	cfg := &Config{
		MaxRetries:   5,
		InitialDelay: time.Hour, // would block without cancellation
		MaxDelay:     time.Hour,
		Multiplier:   2.0,
	}
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	_, err := DoWithResult(ctx, cfg, func() (int, error) {
		calls++
		return 0, errors.New("connection refused")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoWithResult_NilConfigUsesDefaults(t *testing.T) {
	result, err := DoWithResult(context.Background(), nil, func() (bool, error) {
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, result)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("dial tcp: connection refused")))
	assert.True(t, IsRetryable(errors.New("i/o timeout")))
	assert.False(t, IsRetryable(errors.New("password authentication failed")))
	assert.False(t, IsRetryable(errors.New("syntax error at or near ALTER")))
	assert.False(t, IsRetryable(nil))
}
