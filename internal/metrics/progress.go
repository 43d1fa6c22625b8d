// Package metrics carries training progress from the worker to the control task.
package metrics

import (
	"time"

	"go.uber.org/atomic"
)

// Update is one coalesced progress report.
type Update struct {
	Epoch         int
	Samples       int64
	Skipped       int64
	Error         float64
	RecentError   float64
	Elapsed       time.Duration
	SamplesPerSec float64 // over the last report window
	WindowError   float64 // mean sample error over the last report window
}

// Progress is a single-slot mailbox: the worker publishes, readers see the latest value.
// Intermediate updates may be overwritten before anyone reads them.
type Progress struct {
	latest  atomic.Value
	version atomic.Uint64
	stop    atomic.Bool
}

// NewProgress creates an empty mailbox.
func NewProgress() *Progress {
	p := &Progress{}
	p.latest.Store(Update{})
	return p
}

// Publish replaces the latest update.
func (p *Progress) Publish(u Update) {
	p.latest.Store(u)
	p.version.Inc()
}

// Latest returns the most recent update and how many updates were published so far.
func (p *Progress) Latest() (Update, uint64) {
	v := p.version.Load()
	u, _ := p.latest.Load().(Update)
	return u, v
}

// RequestStop asks the worker to stop after its current sample.
func (p *Progress) RequestStop() {
	p.stop.Store(true)
}

// StopRequested reports whether RequestStop was called.
func (p *Progress) StopRequested() bool {
	return p.stop.Load()
}
