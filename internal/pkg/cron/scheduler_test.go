package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler(context.Background())
	var ran atomic.Int32

	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})
	s.AddJob("fails", time.Hour, func(ctx context.Context) error {
		ran.Add(1)
		return errors.New("boom")
	})
	s.AddJob("panics", time.Hour, func(ctx context.Context) error {
		ran.Add(1)
		panic("unexpected")
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, int32(3), ran.Load())
	assert.Len(t, s.Jobs(), 3)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(context.Background())
	done := make(chan struct{}, 1)

	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})
	s.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
