// Package trainingdata reads and writes the line-oriented training sample stream:
//
//	topology: 2 4 1
//	in: 0.0 1.0
//	out: 1.0
//
// The header is followed by repeating in:/out: pairs consumed strictly in file order.
package trainingdata

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	topologyMarker = "topology:"
	inputMarker    = "in:"
	outputMarker   = "out:"
)

// Header errors.
var (
	ErrNoTopology = errors.New("missing topology header")
	ErrLayerSize  = errors.New("layer size must be positive")
)

// Outcome describes what a single record read produced.
type Outcome uint8

const (
	// Read means the line carried the expected marker. The value count may still be short.
	Read Outcome = iota
	// Skipped means a line was consumed but its marker did not match.
	Skipped
	// EOF means the stream is exhausted and no line was consumed.
	EOF
)

func (o Outcome) String() string {
	switch o {
	case Read:
		return "read"
	case Skipped:
		return "skipped"
	case EOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Reader is a sequential, restartable reader over a training sample file.
// After Open or Reset the cursor sits right after the topology header.
type Reader struct {
	path     string
	file     *os.File
	buf      *bufio.Reader
	topology []int
	line     int
	err      error
}

// Open opens path and consumes its topology header.
func Open(path string) (*Reader, error) {
	r := &Reader{path: path}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) open() error {
	f, err := os.Open(r.path)
	if err != nil {
		return errors.Wrap(err, "open training data")
	}
	r.file = f
	r.buf = bufio.NewReader(f)
	r.line = 0
	r.err = nil

	line, ok := r.readLine()
	if !ok {
		r.closeFile()
		if r.err != nil {
			return errors.Wrapf(r.err, "read header of %s", r.path)
		}
		return errors.Wrapf(ErrNoTopology, "%s is empty", r.path)
	}
	topology, err := parseTopology(line)
	if err != nil {
		r.closeFile()
		return errors.Wrapf(err, "%s", r.path)
	}
	r.topology = topology
	return nil
}

// Reset closes and reopens the file, leaving the cursor at the first sample.
// If the file became unavailable the reader stays closed and the error is returned.
func (r *Reader) Reset() error {
	r.closeFile()
	if err := r.open(); err != nil {
		r.err = err
		return errors.Wrap(err, "reset")
	}
	return nil
}

// NextInputs reads one line and returns its values if it starts with "in:".
func (r *Reader) NextInputs() ([]float64, Outcome) {
	return r.readRecord(inputMarker)
}

// TargetOutputs reads one line and returns its values if it starts with "out:".
func (r *Reader) TargetOutputs() ([]float64, Outcome) {
	return r.readRecord(outputMarker)
}

// AtEOF reports whether no further line can be read.
func (r *Reader) AtEOF() bool {
	if r.buf == nil || r.err != nil {
		return true
	}
	_, err := r.buf.Peek(1)
	return err != nil
}

// Topology returns a copy of the header of the file.
func (r *Reader) Topology() []int {
	return append([]int(nil), r.topology...)
}

// Path returns the file the reader was opened on.
func (r *Reader) Path() string {
	return r.path
}

// Line returns the number of lines consumed since the last Open or Reset.
func (r *Reader) Line() int {
	return r.line
}

// Err returns the first I/O error hit since the last Open or Reset.
func (r *Reader) Err() error {
	return r.err
}

// Close releases the file.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.buf = nil
	return err
}

func (r *Reader) closeFile() {
	_ = r.Close()
}

func (r *Reader) readLine() (string, bool) {
	if r.buf == nil {
		return "", false
	}
	s, err := r.buf.ReadString('\n')
	if err != nil && err != io.EOF {
		r.err = err
		return "", false
	}
	if err == io.EOF && s == "" {
		return "", false
	}
	r.line++
	return strings.TrimRight(s, "\r\n"), true
}

func (r *Reader) readRecord(marker string) ([]float64, Outcome) {
	line, ok := r.readLine()
	if !ok {
		return nil, EOF
	}
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != marker {
		return nil, Skipped
	}
	return parseValues(fields[1:]), Read
}

// parseValues parses leading numbers and stops at the first token that is not one.
func parseValues(fields []string) []float64 {
	vals := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			break
		}
		vals = append(vals, v)
	}
	return vals
}

func parseTopology(line string) ([]int, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != topologyMarker {
		return nil, ErrNoTopology
	}
	topology := make([]int, 0, len(fields)-1)
	for i, f := range fields[1:] {
		n, err := strconv.Atoi(f)
		if err != nil {
			break
		}
		if n <= 0 {
			return nil, errors.Wrapf(ErrLayerSize, "layer %d has size %d", i+1, n)
		}
		topology = append(topology, n)
	}
	if len(topology) == 0 {
		return nil, errors.Wrap(ErrNoTopology, "no layer sizes")
	}
	return topology, nil
}

// PeekTopology reads only the header of path through an independent handle.
// It never disturbs a Reader open on the same file.
func PeekTopology(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open training data")
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "read header of %s", path)
	}
	topology, err := parseTopology(strings.TrimRight(line, "\r\n"))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return topology, nil
}
