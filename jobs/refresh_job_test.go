package jobs

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (r *countingRefresher) Refresh() { r.calls.Add(1) }

func TestRefreshJobTicks(t *testing.T) {
	target := &countingRefresher{}
	job := NewRefreshJob(target, 10*time.Millisecond)
	job.Start()
	defer job.Stop()

	require.Eventually(t, func() bool { return target.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestRefreshJobStop(t *testing.T) {
	target := &countingRefresher{}
	job := NewRefreshJob(target, 10*time.Millisecond)
	job.Start()
	require.Eventually(t, func() bool { return target.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	job.Stop()
	job.Stop()
	time.Sleep(30 * time.Millisecond)
	stopped := target.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, target.calls.Load())
}

func TestNewRefreshJobDefaultsInterval(t *testing.T) {
	job := NewRefreshJob(&countingRefresher{}, 0)
	assert.Equal(t, 10*time.Second, job.interval)
}
