package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	failTimes int
	calls     int
	err       error
}

func (f *fakeClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (Response, error) {
	f.calls++
	if f.calls <= f.failTimes {
		if f.err != nil {
			return Response{}, f.err
		}
		return Response{}, errors.New("503 service unavailable")
	}
	return Response{Text: "ok"}, nil
}

func TestCompleteWithRetry_SucceedsAfterTransientFailures(t *testing.T) {
	c := &fakeClient{failTimes: 2}
	resp, err := CompleteWithRetry(context.Background(), c, "sys", "user", RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Text)
	require.Equal(t, 3, c.calls)
}

func TestCompleteWithRetry_FailsFastOnAuthError(t *testing.T) {
	c := &fakeClient{failTimes: 5, err: errors.New("401 unauthorized")}
	_, err := CompleteWithRetry(context.Background(), c, "sys", "user", RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})
	require.Error(t, err)
	require.Equal(t, 1, c.calls)
}

func TestCompleteWithRetry_ExhaustsAttempts(t *testing.T) {
	c := &fakeClient{failTimes: 10}
	_, err := CompleteWithRetry(context.Background(), c, "sys", "user", RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})
	require.Error(t, err)
	require.Equal(t, 3, c.calls)
}

func TestRegistry_UnregisteredProviderFailsFast(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("nonexistent")
	require.Error(t, err)
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	c := &fakeClient{}
	r.Register("fake", c)
	got, err := r.Get("fake")
	require.NoError(t, err)
	require.Same(t, Client(c), got)
}
