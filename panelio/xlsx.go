package panelio

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/quant/panel"
)

const defaultSheet = "Sheet1"

// Sheet is one named table in a workbook.
type Sheet struct {
	Name  string
	Table *panel.Table
}

// SheetsFromMap orders a field → table map by name, for WriteXLSX.
func SheetsFromMap(m map[string]*panel.Table) []Sheet {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]Sheet, len(names))
	for i, n := range names {
		out[i] = Sheet{Name: n, Table: m[n]}
	}
	return out
}

// WriteXLSX writes each sheet as a worksheet, in order. Dates are text
// cells so they survive a round trip without spreadsheet date formats.
func WriteXLSX(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("panelio: no sheets: %w", panel.ErrShape)
	}

	f := excelize.NewFile()
	defer f.Close()

	seen := map[string]bool{}
	for i, s := range sheets {
		if s.Table == nil {
			return fmt.Errorf("panelio: sheet %q: nil table: %w", s.Name, panel.ErrShape)
		}
		if s.Name == "" || seen[s.Name] {
			return fmt.Errorf("panelio: sheet name %q empty or repeated: %w", s.Name, panel.ErrConfig)
		}
		seen[s.Name] = true

		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return err
		}
		if err := writeSheet(f, s.Name, s.Table); err != nil {
			return fmt.Errorf("panelio: sheet %q: %w", s.Name, err)
		}
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, name string, t *panel.Table) error {
	header := append([]string{dateHeader}, t.Columns()...)
	for j, h := range header {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}

	for i := 0; i < t.Len(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(name, cell, FormatDate(t.Time(i))); err != nil {
			return err
		}
		for j := 0; j < t.Width(); j++ {
			v := t.At(i, j)
			if panel.IsMissing(v) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+2, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellFloat(name, cell, v, -1, 64); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadXLSX reads every worksheet of a workbook written by WriteXLSX.
func ReadXLSX(r io.Reader) ([]Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("panelio: %v: %w", err, panel.ErrParse)
	}
	defer f.Close()

	var out []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("panelio: sheet %q: %w", name, err)
		}
		t, err := fromRecords(rows)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		out = append(out, Sheet{Name: name, Table: t})
	}
	return out, nil
}
