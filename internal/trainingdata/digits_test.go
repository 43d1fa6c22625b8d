package trainingdata

import (
	"bytes"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

func TestGenerateDigits(t *testing.T) {
	const perDigit = 5
	var buf bytes.Buffer
	if err := GenerateDigits(&buf, perDigit, rand.New(rand.NewSource(DefaultDigitsSeed))); err != nil {
		t.Fatalf("GenerateDigits: %v", err)
	}
	r := mustOpen(t, writeFile(t, buf.String()))

	if !reflect.DeepEqual(r.Topology(), []int{64, 32, 10}) {
		t.Fatalf("Topology = %v", r.Topology())
	}

	maxShift := float64(digitNoise) / DigitMaxValue
	for sample := 0; ; sample++ {
		in, outcome := r.NextInputs()
		if outcome == EOF {
			if sample != DigitClasses*perDigit {
				t.Errorf("read %d samples, want %d", sample, DigitClasses*perDigit)
			}
			break
		}
		out, _ := r.TargetOutputs()
		digit := sample / perDigit
		if !reflect.DeepEqual(out, OneHot(digit, DigitClasses)) {
			t.Fatalf("sample %d: targets %v, want one-hot %d", sample, out, digit)
		}
		if len(in) != DigitPixels {
			t.Fatalf("sample %d: %d pixels", sample, len(in))
		}
		pattern := DigitPattern(digit)
		for i, v := range in {
			if v < 0 || v > 1 || math.Abs(v-pattern[i]) > maxShift+1e-12 {
				t.Fatalf("sample %d pixel %d = %v, pattern %v", sample, i, v, pattern[i])
			}
		}
	}
}

func TestGenerateDigitsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := GenerateDigits(&a, 3, rand.New(rand.NewSource(7))); err != nil {
		t.Fatal(err)
	}
	if err := GenerateDigits(&b, 3, rand.New(rand.NewSource(7))); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("same seed produced different files")
	}
}

func TestDigitPatternsDistinct(t *testing.T) {
	for d := 0; d < DigitClasses; d++ {
		for e := d + 1; e < DigitClasses; e++ {
			if digitPatterns[d] == digitPatterns[e] {
				t.Errorf("digits %d and %d share a pattern", d, e)
			}
		}
	}
}

func optDigitsRow(value, label string) string {
	fields := make([]string, DigitPixels+1)
	for i := range fields[:DigitPixels] {
		fields[i] = value
	}
	fields[DigitPixels] = label
	return strings.Join(fields, ",")
}

func TestConvertOptDigits(t *testing.T) {
	input := strings.Join([]string{
		optDigitsRow("8", "3"),
		"",
		"1,2,3",                  // short
		optDigitsRow("4", "12"),  // class out of range
		optDigitsRow("x", "1"),   // not a number
		optDigitsRow("20", " 7"), // clamped pixels
	}, "\n") + "\n"

	var buf bytes.Buffer
	n, err := ConvertOptDigits(strings.NewReader(input), &buf)
	if err != nil {
		t.Fatalf("ConvertOptDigits: %v", err)
	}
	if n != 2 {
		t.Fatalf("converted %d samples, want 2", n)
	}

	r := mustOpen(t, writeFile(t, buf.String()))
	want := []struct {
		pixel float64
		label int
	}{{0.5, 3}, {1, 7}}
	for i, w := range want {
		in, _ := r.NextInputs()
		out, _ := r.TargetOutputs()
		if len(in) != DigitPixels || in[0] != w.pixel || in[DigitPixels-1] != w.pixel {
			t.Errorf("sample %d: pixels %v, want all %v", i, in, w.pixel)
		}
		if !reflect.DeepEqual(out, OneHot(w.label, DigitClasses)) {
			t.Errorf("sample %d: targets %v, want one-hot %d", i, out, w.label)
		}
	}
	if !r.AtEOF() {
		t.Error("extra samples after the valid rows")
	}
}

func TestConvertOptDigitsEmpty(t *testing.T) {
	var buf bytes.Buffer
	n, err := ConvertOptDigits(strings.NewReader(""), &buf)
	if err != nil || n != 0 {
		t.Fatalf("ConvertOptDigits = %d, %v", n, err)
	}
	if buf.String() != "topology: 64 32 10\n" {
		t.Errorf("output = %q", buf.String())
	}
}
