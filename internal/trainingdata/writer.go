package trainingdata

import (
	"bufio"
	"io"
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Writer encodes samples in the training stream format.
type Writer struct {
	w       *bufio.Writer
	inputs  int
	outputs int
	count   int
}

// NewWriter writes the topology header and returns a writer for the sample pairs.
func NewWriter(w io.Writer, topology []int) (*Writer, error) {
	if len(topology) < 2 {
		return nil, errors.Errorf("topology needs at least 2 layers, got %d", len(topology))
	}
	sw := &Writer{
		w:       bufio.NewWriter(w),
		inputs:  topology[0],
		outputs: topology[len(topology)-1],
	}

	var sb strings.Builder
	sb.WriteString(topologyMarker)
	for _, n := range topology {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(n))
	}
	sb.WriteByte('\n')
	if _, err := sw.w.WriteString(sb.String()); err != nil {
		return nil, errors.Wrap(err, "write topology")
	}
	return sw, nil
}

// Write appends one in:/out: pair.
func (sw *Writer) Write(inputs, targets []float64) error {
	if len(inputs) != sw.inputs {
		return errors.Errorf("sample %d: got %d inputs, want %d", sw.count, len(inputs), sw.inputs)
	}
	if len(targets) != sw.outputs {
		return errors.Errorf("sample %d: got %d targets, want %d", sw.count, len(targets), sw.outputs)
	}
	if _, err := sw.w.WriteString(formatRecord(inputMarker, inputs)); err != nil {
		return errors.Wrap(err, "write inputs")
	}
	if _, err := sw.w.WriteString(formatRecord(outputMarker, targets)); err != nil {
		return errors.Wrap(err, "write targets")
	}
	sw.count++
	return nil
}

// Count returns the number of pairs written.
func (sw *Writer) Count() int {
	return sw.count
}

// Flush writes any buffered data to the underlying writer.
func (sw *Writer) Flush() error {
	return errors.Wrap(sw.w.Flush(), "flush samples")
}

func formatRecord(marker string, vals []float64) string {
	var sb strings.Builder
	sb.WriteString(marker)
	for _, v := range vals {
		sb.WriteByte(' ')
		sb.WriteString(formatValue(v))
	}
	sb.WriteByte('\n')
	return sb.String()
}

// formatValue keeps integral values readable ("1.0") and others lossless.
func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// XORTopology is the header written by GenerateXOR.
var XORTopology = []int{2, 4, 1}

// DefaultXORSamples is the number of samples written when none is requested.
const DefaultXORSamples = 10001

// GenerateXOR writes n random XOR samples with a 2-4-1 header.
func GenerateXOR(w io.Writer, n int, rng *rand.Rand) error {
	sw, err := NewWriter(w, XORTopology)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		a, b := rng.Intn(2), rng.Intn(2)
		if err := sw.Write([]float64{float64(a), float64(b)}, []float64{float64(a ^ b)}); err != nil {
			return err
		}
	}
	return sw.Flush()
}
