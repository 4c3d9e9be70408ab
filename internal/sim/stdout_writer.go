// Writer implementation printing curves as plain tables to STDOUT
package sim

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

// StdoutWriter prints curve rows as aligned plain-text tables, one table per
// (scheme, disruption) curve.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{out: os.Stdout}
}

// Write outputs a single row on one line.
func (w *StdoutWriter) Write(row CurveRow) error {
	_, err := fmt.Fprintf(w.out, "%s %s k=%d energy=%.6f communication=%.2f\n",
		row.Scheme, row.Disruption, row.Affected, row.Energy, row.Communication)
	return err
}

// WriteBatch outputs rows grouped into one table per curve.
func (w *StdoutWriter) WriteBatch(rows []CurveRow) error {
	for _, group := range groupCurves(rows) {
		fmt.Fprintf(w.out, "%s / %s\n", group[0].Scheme, group[0].Disruption)
		tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "k\tenergy\tcommunication\tflagged\n")
		for _, r := range group {
			fmt.Fprintf(tw, "%d\t%.6f\t%.2f\t%.1f\n", r.Affected, r.Energy, r.Communication, r.Flagged)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w.out)
	}
	return nil
}

// groupCurves splits consecutive rows into runs sharing scheme and disruption.
func groupCurves(rows []CurveRow) [][]CurveRow {
	var groups [][]CurveRow
	for i, r := range rows {
		if i == 0 || r.Scheme != rows[i-1].Scheme || r.Disruption != rows[i-1].Disruption {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], r)
	}
	return groups
}
