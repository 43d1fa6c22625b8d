package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/tom-ludwig/neuralnet/internal/activations"
	"github.com/tom-ludwig/neuralnet/internal/config"
	"github.com/tom-ludwig/neuralnet/internal/net"
	"github.com/tom-ludwig/neuralnet/internal/trainer"
	"github.com/tom-ludwig/neuralnet/internal/trainingdata"
)

const earlyStopThreshold = 1e-4

func main() {
	cfgPath := flag.String("config", "", "Path to a KEY=value config file")
	dataPath := flag.String("data", "", "Training sample file")
	topology := flag.String("topology", "", "Layer sizes, e.g. \"2 4 1\" (default: file header)")
	epochs := flag.Int("epochs", 0, "Number of passes over the sample file")
	eta := flag.Float64("eta", 0, "Learning rate (default: config, then 0.15)")
	alpha := flag.Float64("alpha", 0, "Momentum; 0 is plain gradient descent (default: config, then 0.5)")
	seed := flag.Int64("seed", 0, "Weight initialisation seed")
	reportEvery := flag.Int("report-every", 0, "Report every N epochs")
	transfer := flag.String("transfer", "", "Transfer function: tanh or softsign")
	csvLog := flag.String("csv-log", "", "Write per-epoch errors to this CSV file")
	patience := flag.Int("patience", 0, "Stop after N epochs without improvement")
	force := flag.Bool("force", false, "Train even if the file topology does not match the network")
	show := flag.Int("show", 4, "Number of samples to predict after training")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal("failed to load config", err)
	}
	overrides := config.Overrides{
		DataPath:    *dataPath,
		Topology:    *topology,
		Epochs:      *epochs,
		Seed:        *seed,
		ReportEvery: *reportEvery,
		Transfer:    *transfer,
		CSVLog:      *csvLog,
		Patience:    *patience,
	}
	// Hyperparameters override only when given, so -alpha 0 is honoured.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "eta":
			overrides.Eta = eta
		case "alpha":
			overrides.Alpha = alpha
		}
	})
	err = cfg.ApplyOverrides(overrides)
	if err != nil {
		fatal("invalid flags", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid config", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *force, *show, logger); err != nil {
		fatal("training failed", err)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}

func run(ctx context.Context, cfg *config.Config, force bool, show int, logger *slog.Logger) error {
	fileTopology, err := trainingdata.PeekTopology(cfg.DataPath)
	if err != nil {
		return err
	}
	topology := cfg.Topology
	if len(topology) == 0 {
		topology = fileTopology
	}
	if err := trainer.CheckTopology(fileTopology, topology); err != nil {
		if !force {
			return errors.Wrap(err, "use -force to train anyway")
		}
		logger.Warn("topology mismatch ignored", "file", fileTopology, "network", topology)
	}

	tr, err := activations.Parse(cfg.Transfer)
	if err != nil {
		return err
	}
	momentum := cfg.Momentum()
	n, err := net.New(topology, net.Config{
		Momentum:        &momentum,
		Transfer:        tr,
		SmoothingFactor: cfg.Smoothing,
		Seed:            cfg.Seed,
	})
	if err != nil {
		return err
	}

	r, err := trainingdata.Open(cfg.DataPath)
	if err != nil {
		return err
	}
	defer r.Close()

	best := trainer.NewBestSnapshot()
	callbacks := []trainer.Callback{
		trainer.Logger{Interval: cfg.ReportEvery, Log: logger},
		best,
	}
	if cfg.Patience > 0 {
		callbacks = append(callbacks, trainer.NewEarlyStopping(cfg.Patience, earlyStopThreshold))
	}
	if cfg.CSVLog != "" {
		callbacks = append(callbacks, trainer.NewCSVLogger(cfg.CSVLog, false))
	}

	fmt.Printf("=== Training %v on %s ===\n", n.Topology(), cfg.DataPath)
	fmt.Printf("Transfer: %s, eta: %g, alpha: %g, epochs: %d\n",
		activations.Name(tr), n.Momentum().Eta, n.Momentum().Alpha, cfg.Epochs)

	res, err := trainer.Run(ctx, trainer.Config{
		Net:         n,
		Reader:      r,
		Epochs:      cfg.Epochs,
		ReportEvery: cfg.ReportEvery,
		Callbacks:   callbacks,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nSession %s\n", res.Session)
	fmt.Printf("Epochs: %d, samples: %d, skipped: %d, elapsed: %s\n", res.Epochs, res.Samples, res.Skipped, res.Elapsed)
	fmt.Printf("Recent average error: %.6f\n", res.RecentError)
	if len(res.Trend) > 1 {
		fmt.Printf("Error trend: first %.6f, lowest %.6f, last %.6f\n",
			res.Trend[0], floats.Min(res.Trend), res.Trend[len(res.Trend)-1])
	}
	if res.Stopped() {
		fmt.Printf("Stopped early: %s\n", res.StopReason)
	}
	if snap, epoch := best.Best(); snap != nil {
		fmt.Printf("Best epoch: %d (recent error %.6f)\n", epoch, snap.RecentAverageError)
	}

	return predict(n, r, show)
}

// predict prints the net's answer for the first samples of the file.
func predict(n *net.Net, r *trainingdata.Reader, count int) error {
	if count <= 0 {
		return nil
	}
	if err := r.Reset(); err != nil {
		return err
	}

	fmt.Println("\nPredictions:")
	for shown := 0; shown < count; {
		inputs, outcome := r.NextInputs()
		if outcome == trainingdata.EOF {
			break
		}
		if outcome != trainingdata.Read || len(inputs) != n.InputSize() {
			continue
		}
		targets, outcome := r.TargetOutputs()
		if outcome != trainingdata.Read || len(targets) != n.OutputSize() {
			continue
		}
		if n.OutputSize() > 1 {
			class, confidence, err := n.Classify(inputs)
			if err != nil {
				return err
			}
			fmt.Printf("Sample %d: class %d (confidence: %.2f), target class %d\n",
				shown+1, class, confidence, floats.MaxIdx(targets))
		} else {
			out, err := n.Predict(inputs)
			if err != nil {
				return err
			}
			fmt.Printf("Input: %v, Predicted: %.4f, Target: %v\n", inputs, out, targets)
		}
		shown++
	}
	return nil
}
