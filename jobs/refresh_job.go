package jobs

import (
	"sync"
	"time"

	"civic-feedback-server/logger"
)

// Refresher recomputes live dashboards
type Refresher interface {
	Refresh()
}

// RefreshJob signals connected dashboards to recompute on a fixed interval
type RefreshJob struct {
	target   Refresher
	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewRefreshJob creates a new refresh job
func NewRefreshJob(target Refresher, interval time.Duration) *RefreshJob {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &RefreshJob{
		target:   target,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the refresh job
func (j *RefreshJob) Start() {
	go j.run()
	logger.Info().Dur("interval", j.interval).Msg("🚀 Dashboard refresh job started")
}

// Stop stops the refresh job. Calling it more than once is safe.
func (j *RefreshJob) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChan)
		logger.Info().Msg("🛑 Dashboard refresh job stopped")
	})
}

// run executes the refresh job
func (j *RefreshJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.target.Refresh()
		case <-j.stopChan:
			return
		}
	}
}
