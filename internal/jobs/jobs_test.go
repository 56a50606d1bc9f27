package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) DeleteExpired(context.Context, time.Time) (int64, error) {
	p.calls.Add(1)
	return 3, nil
}

func TestSessionCleanupRuns(t *testing.T) {
	defer goleak.VerifyNone(t)

	purger := &countingPurger{}
	s := NewScheduler(zerolog.Nop())
	require.NoError(t, s.AddSessionCleanup("@every 1s", purger))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return purger.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestAddSessionCleanup_BadSpec(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	assert.Error(t, s.AddSessionCleanup("every tuesday", &countingPurger{}))
}
