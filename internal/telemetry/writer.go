package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// Writer streams samples as CSV. The header is written with the first
// non-empty batch.
type Writer struct {
	out           io.Writer
	headerWritten bool
	rows          int
}

// NewWriter creates a CSV writer on out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Write appends samples to the trace.
func (w *Writer) Write(samples ...Sample) error {
	if len(samples) == 0 {
		return nil
	}

	if !w.headerWritten {
		if err := gocsv.Marshal(samples, w.out); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		w.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(samples, w.out); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}

	w.rows += len(samples)
	return nil
}

// Rows returns the number of samples written.
func (w *Writer) Rows() int {
	return w.rows
}

// ReadSamples parses a trace written by Writer.
func ReadSamples(in io.Reader) ([]Sample, error) {
	var samples []Sample
	if err := gocsv.Unmarshal(in, &samples); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return samples, nil
}
