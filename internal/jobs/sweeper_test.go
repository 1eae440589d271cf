package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls atomic.Int32
	err   error
}

func (f *fakeSweeper) Sweep(context.Context, time.Time) (int64, error) {
	f.calls.Add(1)
	return 3, f.err
}

func TestSweepOnce(t *testing.T) {
	f := &fakeSweeper{}
	SweepOnce(context.Background(), f, logrus.WithField("test", true))
	assert.Equal(t, int32(1), f.calls.Load())

	f.err = errors.New("db down")
	assert.NotPanics(t, func() {
		SweepOnce(context.Background(), f, logrus.WithField("test", true))
	})
}

func TestScheduler_AddSessionSweep(t *testing.T) {
	s := NewScheduler()
	f := &fakeSweeper{}

	require.NoError(t, s.AddSessionSweep("", f))
	require.Error(t, s.AddSessionSweep("not a schedule", f))
	require.NoError(t, s.AddSessionSweep("@every 10ms", f))

	s.Start()
	assert.Eventually(t, func() bool { return f.calls.Load() > 0 }, 3*time.Second, 20*time.Millisecond)
	s.Stop()
}
