package trainer

import (
	"log/slog"
	"math"
	"time"

	"github.com/tom-ludwig/neuralnet/internal/net"
)

// EpochStats describes one finished epoch.
type EpochStats struct {
	Epoch       int
	Samples     int64 // trained in this epoch
	Skipped     int64 // records passed over in this epoch
	RecentError float64
	Elapsed     time.Duration // since the run started
}

// Callback defines the interface for training callbacks.
// Callbacks run on the worker goroutine and may read the net freely.
type Callback interface {
	OnTrainBegin(n *net.Net)
	OnTrainEnd(n *net.Net)
	OnEpochEnd(stats EpochStats, n *net.Net)
}

// StopRequester is implemented by callbacks that can end a run early.
type StopRequester interface {
	StopRequested() bool
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(n *net.Net)                 {}
func (c BaseCallback) OnTrainEnd(n *net.Net)                   {}
func (c BaseCallback) OnEpochEnd(stats EpochStats, n *net.Net) {}

// EarlyStopping stops training when the recent average error has stopped improving.
type EarlyStopping struct {
	BaseCallback
	Patience  int
	Threshold float64

	bestErr      float64
	numBadEpochs int
	Stopped      bool
}

func NewEarlyStopping(patience int, threshold float64) *EarlyStopping {
	return &EarlyStopping{
		Patience:  patience,
		Threshold: threshold,
		bestErr:   math.MaxFloat64,
	}
}

func (c *EarlyStopping) OnEpochEnd(stats EpochStats, n *net.Net) {
	if stats.RecentError < c.bestErr-c.Threshold {
		c.bestErr = stats.RecentError
		c.numBadEpochs = 0
	} else {
		c.numBadEpochs++
	}

	if c.numBadEpochs >= c.Patience {
		c.Stopped = true
	}
}

// StopRequested reports whether patience ran out.
func (c *EarlyStopping) StopRequested() bool {
	return c.Stopped
}

// BestSnapshot keeps a copy of the net at the epoch with the lowest recent error.
type BestSnapshot struct {
	BaseCallback

	bestErr float64
	epoch   int
	snap    *net.Snapshot
}

func NewBestSnapshot() *BestSnapshot {
	return &BestSnapshot{bestErr: math.MaxFloat64}
}

func (c *BestSnapshot) OnEpochEnd(stats EpochStats, n *net.Net) {
	if stats.RecentError < c.bestErr {
		c.bestErr = stats.RecentError
		c.epoch = stats.Epoch
		s := n.Snapshot()
		c.snap = &s
	}
}

// Best returns the best snapshot and its epoch, or nil before the first epoch ends.
func (c *BestSnapshot) Best() (*net.Snapshot, int) {
	return c.snap, c.epoch
}

// Logger logs training progress every Interval epochs.
type Logger struct {
	BaseCallback
	Interval int
	Log      *slog.Logger
}

func (c Logger) OnEpochEnd(stats EpochStats, n *net.Net) {
	if c.Interval > 0 && stats.Epoch%c.Interval == 0 {
		log := c.Log
		if log == nil {
			log = slog.Default()
		}
		log.Info("epoch finished",
			"epoch", stats.Epoch,
			"samples", stats.Samples,
			"skipped", stats.Skipped,
			"recent_error", stats.RecentError,
			"error", n.Error(),
		)
	}
}
