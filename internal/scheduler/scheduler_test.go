package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tweet_tracker/internal/domain"
)

type countingPoller struct {
	calls atomic.Int32
	err   error
}

func (p *countingPoller) Poll(context.Context) (*domain.PollStats, error) {
	p.calls.Add(1)
	return &domain.PollStats{}, p.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestScheduler_RunsImmediately(t *testing.T) {
	poller := &countingPoller{}
	sched := NewScheduler(poller, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	assert.Eventually(t, func() bool {
		return poller.calls.Load() == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestScheduler_RunsOnTicks(t *testing.T) {
	poller := &countingPoller{}
	sched := NewScheduler(poller, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sched.Start(ctx) }()

	assert.Eventually(t, func() bool {
		return poller.calls.Load() >= 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestScheduler_KeepsGoingAfterFailure(t *testing.T) {
	poller := &countingPoller{err: errors.New("upstream down")}
	sched := NewScheduler(poller, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sched.Start(ctx) }()

	assert.Eventually(t, func() bool {
		return poller.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}
