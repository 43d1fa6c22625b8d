package trainingdata

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Dataset is an in-memory set of samples and their target values.
type Dataset struct {
	Samples [][]float64
	Labels  [][]float64
}

// LoadCSV loads data from a CSV file.
// labelCols specifies the indices of columns to be used as targets.
// All other columns are used as inputs.
// hasHeader skips the first line if true.
func LoadCSV(filename string, labelCols []int, hasHeader bool) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}

	startRow := 0
	if hasHeader {
		startRow = 1
	}
	if len(records) <= startRow {
		return nil, errors.New("csv file has no data rows")
	}

	numCols := len(records[0])
	isLabelCol := make(map[int]bool, len(labelCols))
	for _, col := range labelCols {
		if col < 0 || col >= numCols {
			return nil, errors.Errorf("label column %d out of range [0, %d)", col, numCols)
		}
		if isLabelCol[col] {
			return nil, errors.Errorf("label column %d given twice", col)
		}
		isLabelCol[col] = true
	}
	if len(isLabelCol) == 0 || len(isLabelCol) == numCols {
		return nil, errors.New("need at least one input and one label column")
	}

	numSamples := len(records) - startRow
	d := &Dataset{
		Samples: make([][]float64, numSamples),
		Labels:  make([][]float64, numSamples),
	}

	for i := startRow; i < len(records); i++ {
		record := records[i]
		if len(record) != numCols {
			return nil, errors.Errorf("inconsistent number of columns at row %d", i)
		}

		sampleRow := make([]float64, 0, numCols-len(isLabelCol))
		labelValues := make(map[int]float64, len(isLabelCol))
		for j, valStr := range record {
			val, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse value at row %d, col %d", i, j)
			}
			if isLabelCol[j] {
				labelValues[j] = val
			} else {
				sampleRow = append(sampleRow, val)
			}
		}

		// Labels keep the order given in labelCols
		labelRow := make([]float64, 0, len(labelCols))
		for _, col := range labelCols {
			labelRow = append(labelRow, labelValues[col])
		}

		d.Samples[i-startRow] = sampleRow
		d.Labels[i-startRow] = labelRow
	}

	return d, nil
}

// Normalize performs min-max normalization on the samples.
func (d *Dataset) Normalize() {
	if len(d.Samples) == 0 {
		return
	}

	numFeatures := len(d.Samples[0])
	lo := make([]float64, numFeatures)
	hi := make([]float64, numFeatures)
	copy(lo, d.Samples[0])
	copy(hi, d.Samples[0])

	for _, sample := range d.Samples {
		for i, val := range sample {
			if val < lo[i] {
				lo[i] = val
			}
			if val > hi[i] {
				hi[i] = val
			}
		}
	}

	for _, sample := range d.Samples {
		for i := range sample {
			diff := hi[i] - lo[i]
			if diff != 0 {
				sample[i] = (sample[i] - lo[i]) / diff
			} else {
				sample[i] = 0
			}
		}
	}
}

// Topology returns inputs, hidden..., outputs for the dataset.
func (d *Dataset) Topology(hidden []int) []int {
	if len(d.Samples) == 0 {
		return nil
	}
	topology := make([]int, 0, len(hidden)+2)
	topology = append(topology, len(d.Samples[0]))
	topology = append(topology, hidden...)
	return append(topology, len(d.Labels[0]))
}

// Encode encodes the dataset as a sample stream with the given hidden layer sizes.
func (d *Dataset) Encode(w io.Writer, hidden []int) (int, error) {
	if len(d.Samples) == 0 {
		return 0, errors.New("dataset is empty")
	}
	sw, err := NewWriter(w, d.Topology(hidden))
	if err != nil {
		return 0, err
	}
	for i := range d.Samples {
		if err := sw.Write(d.Samples[i], d.Labels[i]); err != nil {
			return sw.Count(), err
		}
	}
	return sw.Count(), sw.Flush()
}

// ConvertCSV loads a CSV file, optionally normalizes it, and writes it as a sample stream.
func ConvertCSV(filename string, labelCols []int, hasHeader, normalize bool, hidden []int, w io.Writer) (int, error) {
	d, err := LoadCSV(filename, labelCols, hasHeader)
	if err != nil {
		return 0, err
	}
	if normalize {
		d.Normalize()
	}
	return d.Encode(w, hidden)
}
