package ingestion

import (
	"log/slog"
	"sync"
	"time"
)

// progressTracker logs validation progress every reportInterval records.
// Validation workers call increment concurrently.
type progressTracker struct {
	logger         *slog.Logger
	total          int
	current        int
	reportInterval int
	lastReported   int
	startTime      time.Time
	mu             sync.Mutex
}

// newProgressTracker returns nil when reporting is disabled; a nil tracker
// is safe to use.
func newProgressTracker(logger *slog.Logger, total, reportInterval int) *progressTracker {
	if reportInterval <= 0 || total < reportInterval {
		return nil
	}
	return &progressTracker{
		logger:         logger,
		total:          total,
		reportInterval: reportInterval,
		startTime:      time.Now(),
	}
}

func (p *progressTracker) increment() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < p.total {
		p.current++
	}
	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// finish logs the final count unless the last increment already did.
func (p *progressTracker) finish() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastReported != p.current {
		p.report()
		p.lastReported = p.current
	}
}

// report logs the current progress. Must be called with lock held.
func (p *progressTracker) report() {
	elapsed := time.Since(p.startTime)
	rate := 0.0
	if elapsed > 0 {
		rate = float64(p.current) / elapsed.Seconds()
	}
	p.logger.Info("validating records",
		"done", p.current,
		"total", p.total,
		"percent", float64(p.current)/float64(p.total)*100.0,
		"rate", rate)
}
