// Package panelio reads and writes panel tables as CSV and XLSX.
//
// Both formats use one header row ("date" followed by the column labels)
// and one row per timestamp. Missing values are empty cells. Dates at
// midnight UTC are written as YYYY-MM-DD, everything else as RFC3339.
package panelio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/quant/panel"
)

const dateHeader = "date"

// WriteCSV writes t to w.
func WriteCSV(w io.Writer, t *panel.Table) error {
	if t == nil {
		return fmt.Errorf("panelio: nil table: %w", panel.ErrShape)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{dateHeader}, t.Columns()...)); err != nil {
		return err
	}

	rec := make([]string, t.Width()+1)
	for i := 0; i < t.Len(); i++ {
		rec[0] = FormatDate(t.Time(i))
		for j := 0; j < t.Width(); j++ {
			rec[j+1] = formatValue(t.At(i, j))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table written by WriteCSV. Short rows are padded with
// missing values.
func ReadCSV(r io.Reader) (*panel.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	recs, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("panelio: %v: %w", err, panel.ErrParse)
	}
	return fromRecords(recs)
}

func fromRecords(recs [][]string) (*panel.Table, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("panelio: missing header: %w", panel.ErrParse)
	}
	header := recs[0]
	if len(header) == 0 || !strings.EqualFold(strings.TrimSpace(header[0]), dateHeader) {
		return nil, fmt.Errorf("panelio: first header cell must be %q: %w", dateHeader, panel.ErrParse)
	}
	columns := header[1:]

	index := make([]time.Time, 0, len(recs)-1)
	rows := make([][]float64, 0, len(recs)-1)
	for n, rec := range recs[1:] {
		line := n + 2
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("panelio: line %d: %d cells for %d columns: %w",
				line, len(rec)-1, len(columns), panel.ErrParse)
		}

		ts, err := panel.ParseBound(rec[0])
		if err != nil || ts.IsZero() {
			return nil, fmt.Errorf("panelio: line %d: bad date %q: %w", line, rec[0], panel.ErrParse)
		}

		row := make([]float64, len(columns))
		for j := range row {
			row[j] = panel.Missing()
			if j+1 >= len(rec) {
				continue
			}
			v, err := parseValue(rec[j+1])
			if err != nil {
				return nil, fmt.Errorf("panelio: line %d column %q: %w", line, columns[j], err)
			}
			row[j] = v
		}

		index = append(index, ts)
		rows = append(rows, row)
	}

	return panel.NewTable(index, columns, rows)
}

// FormatDate renders ts the way the table writers do.
func FormatDate(ts time.Time) string {
	u := ts.UTC()
	if ts.Location() == time.UTC && u.Equal(u.Truncate(24*time.Hour)) {
		return u.Format(time.DateOnly)
	}
	return ts.Format(time.RFC3339Nano)
}

func formatValue(v float64) string {
	if panel.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return panel.Missing(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad value %q: %w", s, panel.ErrParse)
	}
	return v, nil
}
