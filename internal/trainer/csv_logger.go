package trainer

import (
	"encoding/csv"
	"log/slog"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/tom-ludwig/neuralnet/internal/net"
)

var csvLogHeader = []string{"epoch", "samples", "skipped", "recent_error", "time_seconds"}

// CSVLogger writes one row per epoch: how many samples were trained and skipped,
// the recent average error and the seconds since the run started.
// Failures are logged and disable the logger; they never stop training.
type CSVLogger struct {
	BaseCallback
	Filename string
	Append   bool

	file *os.File
	rows *csv.Writer
}

// NewCSVLogger creates a new CSVLogger.
func NewCSVLogger(filename string, append bool) *CSVLogger {
	return &CSVLogger{Filename: filename, Append: append}
}

func (c *CSVLogger) OnTrainBegin(n *net.Net) {
	if err := c.open(); err != nil {
		slog.Error("csv logger disabled", "file", c.Filename, "err", err)
		c.close()
	}
}

func (c *CSVLogger) open() error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if c.Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(c.Filename, flags, 0o644)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	c.file = file
	c.rows = csv.NewWriter(file)

	info, err := file.Stat()
	if err != nil {
		return errors.Wrap(err, "stat")
	}
	// An appended log keeps the header it already has.
	if info.Size() > 0 {
		return nil
	}
	return c.write(csvLogHeader)
}

func (c *CSVLogger) OnEpochEnd(stats EpochStats, n *net.Net) {
	if c.rows == nil {
		return
	}
	err := c.write([]string{
		strconv.Itoa(stats.Epoch),
		strconv.FormatInt(stats.Samples, 10),
		strconv.FormatInt(stats.Skipped, 10),
		strconv.FormatFloat(stats.RecentError, 'f', 6, 64),
		strconv.FormatFloat(stats.Elapsed.Seconds(), 'f', 2, 64),
	})
	if err != nil {
		slog.Error("csv logger disabled", "file", c.Filename, "epoch", stats.Epoch, "err", err)
		c.close()
	}
}

func (c *CSVLogger) OnTrainEnd(n *net.Net) {
	c.close()
}

// write flushes every row so the log can be followed during a run.
func (c *CSVLogger) write(record []string) error {
	if err := c.rows.Write(record); err != nil {
		return errors.Wrap(err, "write")
	}
	c.rows.Flush()
	return errors.Wrap(c.rows.Error(), "flush")
}

func (c *CSVLogger) close() {
	if c.file == nil {
		return
	}
	if err := c.file.Close(); err != nil {
		slog.Warn("csv logger: close failed", "file", c.Filename, "err", err)
	}
	c.file, c.rows = nil, nil
}
