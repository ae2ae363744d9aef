// Package report writes probabilities out as text, as annotated
// structures, as chimera attribute files and as a plot.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// warnExists checks if a filename exists and prints a warning
// if we will trash a file. It does not return an error.
func warnExists(fname string) {
	if _, err := os.Stat(fname); err == nil {
		fmt.Fprintln(os.Stderr, "Warning, trashing old version of", fname)
	}
}

// Create opens fname for writing. "" and "-" mean standard output,
// which is not closed by Close.
func Create(fname string) (io.WriteCloser, error) {
	if fname == "" || fname == "-" {
		return nopCloser{os.Stdout}, nil
	}
	warnExists(fname)
	fp, err := os.Create(fname)
	if err != nil {
		return nil, fmt.Errorf("output file %v: %w", fname, err)
	}
	return fp, nil
}

// WriteProbs writes one line per value, numbered from 1.
func WriteProbs(w io.Writer, vals []float64) error {
	bw := bufio.NewWriter(w)
	for i, v := range vals {
		if _, err := fmt.Fprintf(bw, "%d,%s\n", i+1, strconv.FormatFloat(v, 'f', -1, 64)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteSummary writes the three quantiles on one line.
func WriteSummary(w io.Writer, label string, q25, q50, q75 float64) error {
	_, err := fmt.Fprintf(w, "%s\tq25 %.3f\tmedian %.3f\tq75 %.3f\n", label, q25, q50, q75)
	return err
}

// WriteChimera writes per residue values in the format wanted by
// chimera for attributes.
func WriteChimera(w io.Writer, attname string, vals []float64) error {
	head := "\nattribute: " + attname + "\nmatch mode: 1-to-1\nrecipient: residues"
	if _, err := fmt.Fprintln(w, "#", time.Now().Format(time.RFC1123), head); err != nil {
		return err
	}
	for i, v := range vals {
		if _, err := fmt.Fprintf(w, "\t:%d\t%#g\n", i+1, v); err != nil {
			return err
		}
	}
	return nil
}
