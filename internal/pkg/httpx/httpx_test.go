package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type statusErr struct{ code int }

func (e *statusErr) Error() string       { return fmt.Sprintf("status %d", e.code) }
func (e *statusErr) HTTPStatusCode() int { return e.code }

func TestIsRetryableHTTPStatus(t *testing.T) {
	require.True(t, IsRetryableHTTPStatus(408))
	require.True(t, IsRetryableHTTPStatus(429))
	require.True(t, IsRetryableHTTPStatus(500))
	require.True(t, IsRetryableHTTPStatus(503))
	require.False(t, IsRetryableHTTPStatus(200))
	require.False(t, IsRetryableHTTPStatus(400))
	require.False(t, IsRetryableHTTPStatus(404))
}

func TestIsRetryableError(t *testing.T) {
	require.False(t, IsRetryableError(nil))
	require.True(t, IsRetryableError(context.DeadlineExceeded))
	require.True(t, IsRetryableError(fmt.Errorf("wrapped: %w", context.Canceled)))
	require.True(t, IsRetryableError(&statusErr{code: 503}))
	require.False(t, IsRetryableError(&statusErr{code: 401}))
	require.False(t, IsRetryableError(errors.New("plain failure")))
}

func TestRetryAfterDuration(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("Retry-After", "3")
	require.Equal(t, 3*time.Second, RetryAfterDuration(resp, time.Second, 10*time.Second))

	// Header capped at max.
	resp.Header.Set("Retry-After", "120")
	require.Equal(t, 10*time.Second, RetryAfterDuration(resp, time.Second, 10*time.Second))

	// Missing header falls back.
	require.Equal(t, time.Second, RetryAfterDuration(nil, time.Second, 10*time.Second))

	// Garbage header falls back.
	resp.Header.Set("Retry-After", "soon")
	require.Equal(t, time.Second, RetryAfterDuration(resp, time.Second, 10*time.Second))
}

func TestJitterSleep(t *testing.T) {
	require.Equal(t, time.Duration(0), JitterSleep(0))
	for i := 0; i < 50; i++ {
		got := JitterSleep(time.Second)
		require.GreaterOrEqual(t, got, 800*time.Millisecond)
		require.LessOrEqual(t, got, 1200*time.Millisecond)
	}
}
