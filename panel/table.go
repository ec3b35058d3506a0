package panel

import (
	"fmt"
	"math"
	"time"
)

// Table is a time-indexed table of float64 observations. Rows are keyed
// by timestamp, columns by asset or field label. A missing observation is
// stored as NaN.
//
// Tables have no mutators. Every operation in this package returns a new
// table and accessors hand out copies, so a *Table can be shared freely.
type Table struct {
	index   []time.Time
	columns []string
	values  [][]float64 // values[row][col]
}

// Missing returns the missing-value marker.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// NewTable builds a table from an index, column labels and row-major
// values. The inputs are copied. A nil rows slice with a non-empty index
// produces an all-missing table.
func NewTable(index []time.Time, columns []string, rows [][]float64) (*Table, error) {
	if rows == nil && len(index) > 0 {
		rows = make([][]float64, len(index))
		for i := range rows {
			rows[i] = missingRow(len(columns))
		}
	}

	t := &Table{
		index:   append([]time.Time(nil), index...),
		columns: append([]string(nil), columns...),
		values:  make([][]float64, len(rows)),
	}
	for i, r := range rows {
		t.values[i] = append([]float64(nil), r...)
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustTable is NewTable that panics on error. Intended for fixtures.
func MustTable(index []time.Time, columns []string, rows [][]float64) *Table {
	t, err := NewTable(index, columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// FromColumns builds a table from per-column series sharing one index.
// Column order follows the order of the columns argument.
func FromColumns(index []time.Time, columns []string, series map[string][]float64) (*Table, error) {
	rows := make([][]float64, len(index))
	for i := range rows {
		rows[i] = missingRow(len(columns))
	}
	for j, c := range columns {
		s, ok := series[c]
		if !ok {
			continue
		}
		if len(s) != len(index) {
			return nil, fmt.Errorf("%w: column %q has %d values for %d timestamps",
				ErrShape, c, len(s), len(index))
		}
		for i, v := range s {
			rows[i][j] = v
		}
	}
	return NewTable(index, columns, rows)
}

func (t *Table) validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil table", ErrShape)
	}
	if len(t.values) != len(t.index) {
		return fmt.Errorf("%w: %d rows for %d timestamps", ErrShape, len(t.values), len(t.index))
	}
	for i, ts := range t.index {
		if ts.IsZero() {
			return fmt.Errorf("%w: row %d has no timestamp", ErrShape, i)
		}
	}
	for i, r := range t.values {
		if len(r) != len(t.columns) {
			return fmt.Errorf("%w: row %d has %d values for %d columns",
				ErrShape, i, len(r), len(t.columns))
		}
	}
	seen := make(map[string]struct{}, len(t.columns))
	for _, c := range t.columns {
		if _, ok := seen[c]; ok {
			return fmt.Errorf("%w: duplicate column %q", ErrShape, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.index) }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.columns) }

// Index returns a copy of the row timestamps.
func (t *Table) Index() []time.Time { return append([]time.Time(nil), t.index...) }

// Columns returns a copy of the column labels.
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// Time returns the timestamp of row i.
func (t *Table) Time(i int) time.Time { return t.index[i] }

// Row returns a copy of row i.
func (t *Table) Row(i int) []float64 { return append([]float64(nil), t.values[i]...) }

// At returns the value at row i, column j.
func (t *Table) At(i, j int) float64 { return t.values[i][j] }

// ColumnIndex returns the position of a column label, or -1.
func (t *Table) ColumnIndex(name string) int {
	for j, c := range t.columns {
		if c == name {
			return j
		}
	}
	return -1
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, bool) {
	j := t.ColumnIndex(name)
	if j < 0 {
		return nil, false
	}
	out := make([]float64, len(t.values))
	for i, r := range t.values {
		out[i] = r[j]
	}
	return out, true
}

// Value looks up a cell by timestamp and column label. The first row
// matching ts is used.
func (t *Table) Value(ts time.Time, column string) (float64, bool) {
	j := t.ColumnIndex(column)
	if j < 0 {
		return Missing(), false
	}
	for i, x := range t.index {
		if x.Equal(ts) {
			return t.values[i][j], true
		}
	}
	return Missing(), false
}

// Equal reports whether two tables have the same index, columns and
// values. Missing values compare equal to each other.
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.index) != len(o.index) || len(t.columns) != len(o.columns) {
		return false
	}
	for i := range t.index {
		if !t.index[i].Equal(o.index[i]) {
			return false
		}
	}
	for j := range t.columns {
		if t.columns[j] != o.columns[j] {
			return false
		}
	}
	for i := range t.values {
		for j := range t.values[i] {
			a, b := t.values[i][j], o.values[i][j]
			if IsMissing(a) && IsMissing(b) {
				continue
			}
			if a != b {
				return false
			}
		}
	}
	return true
}

func (t *Table) rowAllMissing(i int) bool {
	for _, v := range t.values[i] {
		if !IsMissing(v) {
			return false
		}
	}
	return true
}

func (t *Table) rowAnyMissing(i int) bool {
	for _, v := range t.values[i] {
		if IsMissing(v) {
			return true
		}
	}
	return false
}

// take returns a new table holding the listed rows, in order.
func (t *Table) take(rows []int) *Table {
	out := &Table{
		index:   make([]time.Time, len(rows)),
		columns: append([]string(nil), t.columns...),
		values:  make([][]float64, len(rows)),
	}
	for k, i := range rows {
		out.index[k] = t.index[i]
		out.values[k] = append([]float64(nil), t.values[i]...)
	}
	return out
}

func (t *Table) clone() *Table {
	rows := make([]int, len(t.index))
	for i := range rows {
		rows[i] = i
	}
	return t.take(rows)
}

func missingRow(n int) []float64 {
	r := make([]float64, n)
	for i := range r {
		r[i] = math.NaN()
	}
	return r
}
