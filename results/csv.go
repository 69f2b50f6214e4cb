package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/outbreak-xyz/go-outbreak/epidemic"
)

// WriteCSV writes a trajectory as CSV: a time column followed by one
// column per compartment.
func WriteCSV(tr *epidemic.Trajectory, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()
	return WriteCSVTo(tr, f)
}

// WriteCSVTo writes a trajectory as CSV to w.
func WriteCSVTo(tr *epidemic.Trajectory, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := append([]string{"t"}, tr.Compartments...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for i, t := range tr.T {
		row[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for j, v := range tr.U[i] {
			row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
