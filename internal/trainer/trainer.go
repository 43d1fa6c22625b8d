// Package trainer runs online training sessions over a sample stream.
//
// One worker goroutine owns the net and the reader for the whole run. A control
// goroutine only reads the coalesced progress mailbox and logs it.
package trainer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc"

	"github.com/tom-ludwig/neuralnet/internal/metrics"
	"github.com/tom-ludwig/neuralnet/internal/net"
	"github.com/tom-ludwig/neuralnet/internal/trainingdata"
)

// Errors returned by Run.
var (
	ErrNoSamples        = errors.New("no trainable samples in an epoch")
	ErrTopologyMismatch = errors.New("training data does not match the network")
)

const defaultReportInterval = 500 * time.Millisecond

// Stop reasons reported in Result.
const (
	StopCanceled  = "canceled"
	StopRequested = "stop requested"
)

// Config captures what a training run needs.
type Config struct {
	Net            *net.Net
	Reader         *trainingdata.Reader
	Epochs         int
	ReportEvery    int           // epochs between progress publications
	ReportInterval time.Duration // how often the control task looks at progress
	Callbacks      []Callback
	Logger         *slog.Logger
	Progress       *metrics.Progress // created when nil; lets a caller watch or stop the run
}

// Result summarizes a finished run.
type Result struct {
	Session     string
	Epochs      int
	Samples     int64
	Skipped     int64
	RecentError float64
	Trend       []float64 // recent error at every report
	Elapsed     time.Duration
	StopReason  string // empty when all epochs ran
}

// Stopped reports whether the run ended before its last epoch.
func (r Result) Stopped() bool {
	return r.StopReason != ""
}

// CheckTopology verifies the data file feeds the net's input and output layers.
func CheckTopology(file, network []int) error {
	if len(file) == 0 || len(network) == 0 {
		return errors.Wrap(ErrTopologyMismatch, "empty topology")
	}
	if file[0] != network[0] || file[len(file)-1] != network[len(network)-1] {
		return errors.Wrapf(ErrTopologyMismatch, "file %v, network %v", file, network)
	}
	return nil
}

// Run trains cfg.Net on cfg.Reader for cfg.Epochs epochs. An epoch ends when the
// reader is exhausted; the reader is then reset. Cancellation of ctx stops the
// run after the current sample and is reported through Result.StopReason.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.Net == nil || cfg.Reader == nil {
		return Result{}, errors.New("trainer: net and reader are required")
	}
	if cfg.Epochs <= 0 {
		return Result{}, errors.Errorf("trainer: epochs must be > 0 (got %d)", cfg.Epochs)
	}
	if cfg.ReportEvery <= 0 {
		cfg.ReportEvery = 100
	}
	if cfg.ReportInterval <= 0 {
		cfg.ReportInterval = defaultReportInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Progress == nil {
		cfg.Progress = metrics.NewProgress()
	}

	session := uuid.NewString()
	w := &worker{
		cfg: cfg,
		log: cfg.Logger.With("session", session),
	}
	w.result.Session = session

	done := make(chan struct{})
	var runErr error
	var wg conc.WaitGroup
	wg.Go(func() {
		defer close(done)
		runErr = w.run(ctx)
	})
	wg.Go(func() {
		control(done, cfg.Progress, cfg.ReportInterval, w.log)
	})
	wg.Wait()

	if runErr != nil {
		w.log.Error("training failed", "epoch", w.result.Epochs, "err", runErr)
		return w.result, runErr
	}
	w.log.Info("training finished",
		"epochs", w.result.Epochs,
		"samples", w.result.Samples,
		"skipped", w.result.Skipped,
		"recent_error", w.result.RecentError,
		"elapsed", w.result.Elapsed,
		"stop_reason", w.result.StopReason,
	)
	return w.result, nil
}

// control logs the latest progress every interval until done is closed.
func control(done <-chan struct{}, progress *metrics.Progress, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var seen uint64
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			u, version := progress.Latest()
			if version == seen {
				continue
			}
			seen = version
			log.Info("training progress",
				"epoch", u.Epoch,
				"recent_error", u.RecentError,
				"window_error", u.WindowError,
				"samples_per_sec", u.SamplesPerSec,
				"skipped", u.Skipped,
			)
		}
	}
}

type worker struct {
	cfg    Config
	log    *slog.Logger
	window metrics.Window
	result Result
	start  time.Time

	// counters at the start of the current epoch
	epochSamples int64
	epochSkipped int64
}

func (w *worker) run(ctx context.Context) error {
	n, r := w.cfg.Net, w.cfg.Reader
	w.start = time.Now()
	defer func() {
		w.result.Elapsed = time.Since(w.start)
		w.result.RecentError = n.RecentAverageError()
	}()

	for _, cb := range w.cfg.Callbacks {
		cb.OnTrainBegin(n)
	}
	defer func() {
		for _, cb := range w.cfg.Callbacks {
			cb.OnTrainEnd(n)
		}
	}()

	// Start from the first sample even if the reader was used before.
	if err := r.Reset(); err != nil {
		return err
	}
	w.log.Info("training started",
		"data", r.Path(),
		"topology", n.Topology(),
		"epochs", w.cfg.Epochs,
		"eta", n.Momentum().Eta,
		"alpha", n.Momentum().Alpha,
	)

	for w.result.Epochs < w.cfg.Epochs {
		if ctx.Err() != nil {
			w.result.StopReason = StopCanceled
			return nil
		}
		if w.cfg.Progress.StopRequested() {
			w.result.StopReason = StopRequested
			return nil
		}

		inputs, outcome := r.NextInputs()
		switch {
		case outcome == trainingdata.EOF:
			if err := r.Err(); err != nil {
				return errors.Wrapf(err, "read %s", r.Path())
			}
			if w.result.Samples == w.epochSamples {
				return errors.Wrapf(ErrNoSamples, "%s, epoch %d", r.Path(), w.result.Epochs+1)
			}
			if stop := w.endEpoch(); stop {
				return nil
			}
			if w.result.Epochs >= w.cfg.Epochs {
				return nil
			}
			if err := r.Reset(); err != nil {
				return err
			}
			continue
		case outcome == trainingdata.Skipped || len(inputs) != n.InputSize():
			w.result.Skipped++
			continue
		}

		w.step(inputs)
	}
	return nil
}

// step trains one sample; samples that fail any stage count as skipped.
func (w *worker) step(inputs []float64) {
	n, r := w.cfg.Net, w.cfg.Reader
	start := time.Now()

	if err := n.FeedForward(inputs); err != nil {
		w.result.Skipped++
		return
	}
	targets, outcome := r.TargetOutputs()
	if outcome != trainingdata.Read || len(targets) != n.OutputSize() {
		w.result.Skipped++
		return
	}
	if err := n.BackPropagate(targets); err != nil {
		w.result.Skipped++
		return
	}

	w.result.Samples++
	w.window.Record(time.Since(start), n.Error())
}

// endEpoch runs the callbacks and publishes progress; it reports whether a callback asked to stop.
func (w *worker) endEpoch() bool {
	n := w.cfg.Net
	w.result.Epochs++
	epoch := w.result.Epochs
	recent := n.RecentAverageError()
	stats := EpochStats{
		Epoch:       epoch,
		Samples:     w.result.Samples - w.epochSamples,
		Skipped:     w.result.Skipped - w.epochSkipped,
		RecentError: recent,
		Elapsed:     time.Since(w.start),
	}
	w.epochSamples, w.epochSkipped = w.result.Samples, w.result.Skipped

	stop := false
	for _, cb := range w.cfg.Callbacks {
		cb.OnEpochEnd(stats, n)
		if s, ok := cb.(StopRequester); ok && s.StopRequested() {
			stop = true
		}
	}

	if epoch%w.cfg.ReportEvery == 0 || epoch == w.cfg.Epochs || stop {
		snap := w.window.Snapshot()
		w.result.Trend = append(w.result.Trend, recent)
		w.cfg.Progress.Publish(metrics.Update{
			Epoch:         epoch,
			Samples:       w.result.Samples,
			Skipped:       w.result.Skipped,
			Error:         n.Error(),
			RecentError:   recent,
			Elapsed:       time.Since(w.start),
			SamplesPerSec: snap.SamplesPerSec,
			WindowError:   snap.MeanError,
		})
	}

	if stop {
		w.result.StopReason = StopRequested
		w.log.Info("callback requested stop", "epoch", epoch, "recent_error", recent)
	}
	return stop
}
