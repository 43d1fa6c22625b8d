package main

import (
	"bufio"
	"flag"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/tom-ludwig/neuralnet/internal/trainingdata"
)

func main() {
	out := flag.String("o", "", "Output file (default: stdout)")
	n := flag.Int("n", trainingdata.DefaultXORSamples, "Number of XOR samples")
	seed := flag.Int64("seed", 0, "PRNG seed (default: 42 for digits, time based for XOR)")
	csvPath := flag.String("csv", "", "Convert this CSV file instead of generating XOR samples")
	labels := flag.String("labels", "", "Comma separated label column indices of the CSV")
	header := flag.Bool("header", false, "CSV has a header row")
	normalize := flag.Bool("normalize", false, "Min-max normalize CSV feature columns")
	hidden := flag.String("hidden", "4", "Hidden layer sizes written to the topology header")
	digits := flag.Bool("digits", false, "Generate 8x8 digit images (topology 64 32 10) instead of XOR samples")
	perDigit := flag.Int("per-digit", trainingdata.DefaultDigitSamples, "Digit samples per class")
	optDigits := flag.String("optdigits", "", "Convert this UCI optdigits file (implies -digits)")

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Error("create output", "file", *out, "err", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)

	seedSet := false
	flag.Visit(func(f *flag.Flag) { seedSet = seedSet || f.Name == "seed" })
	rng := func(fallback int64) *rand.Rand {
		s := *seed
		if !seedSet {
			s = fallback
		}
		return rand.New(rand.NewSource(s))
	}

	var count int
	var err error
	switch {
	case *csvPath != "":
		count, err = convert(*csvPath, *labels, *header, *normalize, *hidden, bw)
	case *optDigits != "":
		count, err = convertOptDigits(*optDigits, bw)
		if os.IsNotExist(errors.Cause(err)) {
			logger.Warn("optdigits file missing, generating embedded digits", "file", *optDigits)
			count = *perDigit * trainingdata.DigitClasses
			err = trainingdata.GenerateDigits(bw, *perDigit, rng(trainingdata.DefaultDigitsSeed))
		}
	case *digits:
		count = *perDigit * trainingdata.DigitClasses
		err = trainingdata.GenerateDigits(bw, *perDigit, rng(trainingdata.DefaultDigitsSeed))
	default:
		count = *n
		err = trainingdata.GenerateXOR(bw, *n, rng(time.Now().UnixNano()))
	}
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		logger.Error("write samples", "err", err)
		os.Exit(1)
	}
	logger.Info("samples written", "count", count, "file", *out)
}

func convertOptDigits(path string, w io.Writer) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, "open optdigits")
	}
	defer f.Close()
	return trainingdata.ConvertOptDigits(f, w)
}

func convert(path, labels string, header, normalize bool, hidden string, w io.Writer) (int, error) {
	if strings.TrimSpace(labels) == "" {
		return 0, errors.New("-labels is required with -csv")
	}
	labelCols, err := parseInts(labels, 0)
	if err != nil {
		return 0, errors.Wrap(err, "labels")
	}
	hiddenSizes, err := parseInts(hidden, 1)
	if err != nil {
		return 0, errors.Wrap(err, "hidden")
	}
	return trainingdata.ConvertCSV(path, labelCols, header, normalize, hiddenSizes, w)
}

// parseInts parses a comma or space separated list of integers >= min.
func parseInts(s string, min int) ([]int, error) {
	var vals []int
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		v, err := strconv.Atoi(f)
		if err != nil || v < min {
			return nil, errors.Errorf("invalid value %q", f)
		}
		vals = append(vals, v)
	}
	return vals, nil
}
