package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Results holds the timings of every stage.
type Results struct {
	Runs   int
	Cycles int
	Single Stats
	Paired Stats
}

// A Row is the summary of one stage.
type Row struct {
	Name string
	Min  uint32
	Mean uint32
	Max  uint32
}

// Rows summarises each stage in a fixed order.
func (r *Results) Rows() []Row {
	row := func(name string, s *Stats) Row {
		return Row{Name: name, Min: s.Min, Mean: s.Mean(), Max: s.Max}
	}
	return []Row{
		row("Single", &r.Single),
		row("Paired", &r.Paired),
	}
}

// WriteTable writes the results as an aligned table.
func WriteTable(w io.Writer, r *Results) error {
	if _, err := fmt.Fprintf(w, "%-16s%10s%10s%10s\n", "Test", "Min", "Mean", "Max"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", "----------------------------------------------"); err != nil {
		return err
	}
	for _, row := range r.Rows() {
		if _, err := fmt.Fprintf(w, "%-16s%10d%10d%10d\n", row.Name, row.Min, row.Mean, row.Max); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the results as CSV with a header row.
func WriteCSV(w io.Writer, r *Results) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"Test", "Min", "Mean", "Max"})
	for _, row := range r.Rows() {
		cw.Write([]string{
			row.Name,
			strconv.FormatUint(uint64(row.Min), 10),
			strconv.FormatUint(uint64(row.Mean), 10),
			strconv.FormatUint(uint64(row.Max), 10),
		})
	}
	cw.Flush()
	return cw.Error()
}
