package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMonitor struct {
	cycles   atomic.Int32
	interval time.Duration
	err      error
}

func (f *fakeMonitor) RunCycle(ctx context.Context) (time.Duration, error) {
	f.cycles.Add(1)
	return f.interval, f.err
}

func (f *fakeMonitor) SendDigest(ctx context.Context, since time.Time, period string) error {
	return nil
}

func TestService_RunsCyclesUntilStopped(t *testing.T) {
	monitor := &fakeMonitor{interval: 10 * time.Millisecond}
	service := NewService(monitor)

	require.NoError(t, service.Start())
	time.Sleep(100 * time.Millisecond)
	service.Stop()

	ran := monitor.cycles.Load()
	assert.GreaterOrEqual(t, ran, int32(2), "expected multiple cycles")

	// No further cycles after Stop returns
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, ran, monitor.cycles.Load())
}

func TestService_FailingCyclesDoNotStopTheLoop(t *testing.T) {
	monitor := &fakeMonitor{err: errors.New("settings unreadable")}
	service := NewService(monitor)

	require.NoError(t, service.Start())
	time.Sleep(50 * time.Millisecond)
	service.Stop()

	// The first cycle ran and failed; the loop survived into its fallback
	// sleep instead of exiting.
	assert.GreaterOrEqual(t, monitor.cycles.Load(), int32(1))
}

func TestService_StartRejectsBadDigestSchedule(t *testing.T) {
	orig := digestSchedule
	digestSchedule = "not-a-schedule"
	defer func() { digestSchedule = orig }()

	monitor := &fakeMonitor{interval: 10 * time.Millisecond}
	service := NewService(monitor)

	require.Error(t, service.Start())

	// The monitoring loop never launched
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), monitor.cycles.Load())
	service.Stop()
}

func TestService_StopInterruptsSleep(t *testing.T) {
	monitor := &fakeMonitor{interval: time.Hour}
	service := NewService(monitor)

	require.NoError(t, service.Start())
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		service.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not interrupt the inter-cycle sleep")
	}
}
