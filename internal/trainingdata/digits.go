package trainingdata

import (
	"encoding/csv"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Digit images are 8x8 grayscale grids with values 0..16, one class per digit.
const (
	DigitPixels         = 64
	DigitClasses        = 10
	DigitMaxValue       = 16
	DefaultDigitSamples = 50 // per digit
	DefaultDigitsSeed   = 42

	digitNoise     = 2
	optDigitsLabel = DigitPixels // label column of an optdigits row
)

// DigitsTopology is the header written by GenerateDigits and ConvertOptDigits.
var DigitsTopology = []int{DigitPixels, 32, DigitClasses}

// digitPatterns holds one stylised 8x8 image per digit, row-major.
var digitPatterns = [DigitClasses][DigitPixels]uint8{
	{ // 0
		0, 0, 12, 14, 14, 12, 0, 0,
		0, 10, 16, 0, 0, 16, 10, 0,
		0, 14, 0, 0, 0, 0, 14, 0,
		0, 14, 0, 0, 0, 0, 14, 0,
		0, 10, 16, 0, 0, 16, 10, 0,
		0, 0, 12, 14, 14, 12, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // 1
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 8, 16, 0, 0, 0,
		0, 0, 0, 8, 16, 0, 0, 0,
		0, 0, 0, 8, 16, 0, 0, 0,
		0, 0, 0, 8, 16, 0, 0, 0,
		0, 0, 0, 8, 16, 0, 0, 0,
		0, 0, 0, 8, 16, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // 2
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 12, 14, 14, 14, 0, 0,
		0, 0, 0, 0, 0, 14, 8, 0,
		0, 0, 0, 0, 0, 14, 4, 0,
		0, 0, 0, 0, 8, 14, 0, 0,
		0, 0, 0, 4, 14, 0, 0, 0,
		0, 0, 12, 14, 14, 14, 14, 14,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // 3
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 10, 14, 14, 12, 0, 0,
		0, 0, 0, 0, 0, 14, 8, 0,
		0, 0, 0, 6, 14, 14, 4, 0,
		0, 0, 0, 0, 0, 0, 14, 8,
		0, 0, 0, 0, 0, 0, 14, 8,
		0, 0, 0, 10, 14, 14, 12, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // 4
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 6, 14, 0, 0,
		0, 0, 0, 4, 14, 14, 0, 0,
		0, 0, 0, 10, 8, 14, 0, 0,
		0, 0, 0, 12, 0, 14, 0, 0,
		0, 0, 8, 14, 14, 14, 14, 14,
		0, 0, 0, 0, 0, 14, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // 5
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 12, 14, 14, 14, 14, 0,
		0, 0, 12, 0, 0, 0, 0, 0,
		0, 0, 10, 14, 14, 12, 0, 0,
		0, 0, 0, 0, 0, 0, 14, 8,
		0, 0, 0, 0, 0, 0, 14, 8,
		0, 0, 0, 10, 14, 14, 12, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // 6
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 6, 14, 8, 0, 0,
		0, 0, 4, 14, 0, 0, 0, 0,
		0, 0, 10, 14, 14, 12, 0, 0,
		0, 0, 0, 14, 0, 0, 14, 8,
		0, 0, 0, 14, 0, 0, 14, 8,
		0, 0, 0, 10, 14, 14, 12, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // 7
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 12, 14, 14, 14, 14, 0,
		0, 0, 0, 0, 0, 14, 8, 0,
		0, 0, 0, 0, 4, 14, 0, 0,
		0, 0, 0, 0, 0, 14, 4, 0,
		0, 0, 0, 0, 4, 14, 0, 0,
		0, 0, 0, 0, 8, 14, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // 8
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 10, 14, 14, 12, 0, 0,
		0, 0, 14, 0, 0, 14, 0, 0,
		0, 0, 10, 14, 14, 12, 0, 0,
		0, 0, 0, 14, 0, 0, 14, 0,
		0, 0, 0, 14, 0, 0, 14, 0,
		0, 0, 0, 10, 14, 14, 12, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // 9
		0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 10, 14, 14, 12, 0, 0,
		0, 0, 14, 0, 0, 14, 0, 0,
		0, 0, 10, 14, 14, 14, 0, 0,
		0, 0, 0, 0, 0, 0, 14, 0,
		0, 0, 0, 0, 0, 6, 14, 0,
		0, 0, 0, 0, 4, 14, 4, 0,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
}

// DigitPattern returns the normalized, noise free image of digit d.
func DigitPattern(d int) []float64 {
	pixels := make([]float64, DigitPixels)
	for i, v := range digitPatterns[d] {
		pixels[i] = float64(v) / DigitMaxValue
	}
	return pixels
}

// OneHot returns a target vector of size classes with a 1 at label.
func OneHot(label, classes int) []float64 {
	v := make([]float64, classes)
	v[label] = 1
	return v
}

// GenerateDigits writes perDigit noisy copies of every digit pattern, digit by digit.
// Each pixel is shifted by a random amount in [-2, 2], clamped to 0..16 and scaled to 0..1.
func GenerateDigits(w io.Writer, perDigit int, rng *rand.Rand) error {
	sw, err := NewWriter(w, DigitsTopology)
	if err != nil {
		return err
	}
	pixels := make([]float64, DigitPixels)
	for digit := 0; digit < DigitClasses; digit++ {
		target := OneHot(digit, DigitClasses)
		for s := 0; s < perDigit; s++ {
			for i, base := range digitPatterns[digit] {
				v := int(base) + rng.Intn(2*digitNoise+1) - digitNoise
				pixels[i] = float64(clampPixel(v)) / DigitMaxValue
			}
			if err := sw.Write(pixels, target); err != nil {
				return err
			}
		}
	}
	return sw.Flush()
}

// ConvertOptDigits converts UCI optdigits rows (64 pixel values 0..16, then the class)
// into a sample stream. Rows that are too short, carry a non-numeric value or a class
// outside 0..9 are dropped. It returns the number of samples written.
func ConvertOptDigits(r io.Reader, w io.Writer) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	sw, err := NewWriter(w, DigitsTopology)
	if err != nil {
		return 0, err
	}
	pixels := make([]float64, DigitPixels)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sw.Count(), errors.Wrap(err, "read optdigits")
		}
		label, ok := parseOptDigitsRow(record, pixels)
		if !ok {
			continue
		}
		if err := sw.Write(pixels, OneHot(label, DigitClasses)); err != nil {
			return sw.Count(), err
		}
	}
	return sw.Count(), sw.Flush()
}

// parseOptDigitsRow fills pixels from record and returns the class.
func parseOptDigitsRow(record []string, pixels []float64) (int, bool) {
	if len(record) <= optDigitsLabel {
		return 0, false
	}
	label, err := strconv.Atoi(strings.TrimSpace(record[optDigitsLabel]))
	if err != nil || label < 0 || label >= DigitClasses {
		return 0, false
	}
	for i := range pixels {
		v, err := strconv.Atoi(strings.TrimSpace(record[i]))
		if err != nil {
			return 0, false
		}
		pixels[i] = float64(clampPixel(v)) / DigitMaxValue
	}
	return label, true
}

func clampPixel(v int) int {
	if v < 0 {
		return 0
	}
	if v > DigitMaxValue {
		return DigitMaxValue
	}
	return v
}
