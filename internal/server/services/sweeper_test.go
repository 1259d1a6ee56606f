package services

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophreveal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingExpirer struct {
	mu     sync.Mutex
	calls  int
	err    error
	cancel context.CancelFunc
	stopAt int
}

func (e *countingExpirer) ExpirePendingRequests(ctx context.Context, now time.Time) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.calls >= e.stopAt {
		e.cancel()
	}
	return 0, e.err
}

func TestNewSweeper_InvalidSchedule(t *testing.T) {
	for _, s := range []string{"", "every minute", "* * *"} {
		_, err := NewSweeper(&countingExpirer{}, s, logging.Nop{})
		assert.Error(t, err, s)
	}
}

func TestSweeper_Next(t *testing.T) {
	s, err := NewSweeper(&countingExpirer{}, "*/5 * * * *", logging.Nop{})
	require.NoError(t, err)

	now := time.Date(2025, 5, 1, 9, 2, 30, 0, time.UTC)
	next, err := s.Next(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 1, 9, 5, 0, 0, time.UTC), next)

	next, err = s.Next(next)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 1, 9, 10, 0, 0, time.UTC), next)
}

func TestSweeper_RunSweepsEveryTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf bytes.Buffer
	e := &countingExpirer{cancel: cancel, stopAt: 3, err: errors.New("store closed")}
	s, err := NewSweeper(e, "* * * * *", logging.NewJSONLogger(&buf, "info"))
	require.NoError(t, err)

	s.now = func() time.Time { return time.Date(2025, 5, 1, 9, 0, 30, 0, time.UTC) }
	var waits []time.Duration
	s.after = func(d time.Duration) <-chan time.Time {
		waits = append(waits, d)
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper did not stop")
	}

	assert.GreaterOrEqual(t, e.calls, 3)
	require.NotEmpty(t, waits)
	assert.Equal(t, 30*time.Second, waits[0])
	assert.Contains(t, buf.String(), "expiry sweep failed")
	assert.Contains(t, buf.String(), `"module":"sweeper"`)
}

func TestSweeper_RunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := &countingExpirer{}
	s, err := NewSweeper(e, "@hourly", logging.Nop{})
	require.NoError(t, err)
	s.after = func(time.Duration) <-chan time.Time { return nil }

	require.NoError(t, s.Run(ctx))
	assert.Zero(t, e.calls)
}
