package history

import (
	"fmt"
	"sort"
	"time"

	"github.com/rustyeddy/quant/panel"
)

// Key identifies a column of a Frame.
type Key struct {
	Ticker string
	Field  string
}

func (k Key) String() string { return k.Ticker + "-" + k.Field }

// Frame is a two-level column table: rows are dates, columns are
// (ticker, field) pairs. Missing values are NaN.
type Frame struct {
	index  []time.Time
	keys   []Key
	values [][]float64
}

// NewFrame copies and validates its inputs. Every key needs a ticker and a
// field, keys must be unique, dates must be set and unique.
func NewFrame(index []time.Time, keys []Key, rows [][]float64) (*Frame, error) {
	f := &Frame{
		index:  append([]time.Time(nil), index...),
		keys:   append([]Key(nil), keys...),
		values: make([][]float64, len(rows)),
	}
	for i, r := range rows {
		f.values[i] = append([]float64(nil), r...)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Frame) validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", panel.ErrShape)
	}
	if len(f.values) != len(f.index) {
		return fmt.Errorf("%w: %d rows for %d dates", panel.ErrShape, len(f.values), len(f.index))
	}
	seen := make(map[Key]struct{}, len(f.keys))
	for _, k := range f.keys {
		if k.Ticker == "" || k.Field == "" {
			return fmt.Errorf("%w: column %q is not a (ticker, field) pair", panel.ErrShape, k.String())
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: duplicate column %s", panel.ErrShape, k)
		}
		seen[k] = struct{}{}
	}
	dates := make(map[int64]struct{}, len(f.index))
	for i, ts := range f.index {
		if ts.IsZero() {
			return fmt.Errorf("%w: row %d has no date", panel.ErrShape, i)
		}
		if _, dup := dates[ts.UnixNano()]; dup {
			return fmt.Errorf("%w: duplicate date %s", panel.ErrShape, ts.Format(time.DateOnly))
		}
		dates[ts.UnixNano()] = struct{}{}
	}
	for i, r := range f.values {
		if len(r) != len(f.keys) {
			return fmt.Errorf("%w: row %d has %d values for %d columns",
				panel.ErrShape, i, len(r), len(f.keys))
		}
	}
	return nil
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.index) }

// Index returns a copy of the dates.
func (f *Frame) Index() []time.Time { return append([]time.Time(nil), f.index...) }

// Keys returns a copy of the column keys.
func (f *Frame) Keys() []Key { return append([]Key(nil), f.keys...) }

// At returns the value at row i, column j.
func (f *Frame) At(i, j int) float64 { return f.values[i][j] }

// sorted returns a copy of f with rows in ascending date order.
func (f *Frame) sorted() *Frame {
	order := make([]int, len(f.index))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return f.index[order[a]].Before(f.index[order[b]])
	})

	out := &Frame{
		index:  make([]time.Time, len(order)),
		keys:   f.Keys(),
		values: make([][]float64, len(order)),
	}
	for k, i := range order {
		out.index[k] = f.index[i]
		out.values[k] = append([]float64(nil), f.values[i]...)
	}
	return out
}

// Observation is one long-format vendor record.
type Observation struct {
	Date   time.Time
	Ticker string
	Field  string
	Value  float64
}

// Pivot turns observations into a Frame for req. Columns follow the
// requested ticker then field order and only pairs with data appear. When
// req names no tickers, tickers appear in order of first observation.
// Observations outside the requested tickers, fields or date range are
// ignored. For repeated (date, ticker, field) triples the last one wins.
func Pivot(req Request, obs []Observation) (*Frame, error) {
	from, to, err := req.bounds()
	if err != nil {
		return nil, err
	}

	tickers := req.Tickers
	if len(tickers) == 0 {
		seen := map[string]struct{}{}
		for _, o := range obs {
			if _, ok := seen[o.Ticker]; !ok {
				seen[o.Ticker] = struct{}{}
				tickers = append(tickers, o.Ticker)
			}
		}
	}
	wantTicker := set(tickers)
	wantField := set(req.Fields)

	type cell struct {
		date int64
		key  Key
	}
	cells := make(map[cell]float64)
	dates := make(map[int64]time.Time)
	has := make(map[Key]bool)

	for _, o := range obs {
		if _, ok := wantTicker[o.Ticker]; !ok {
			continue
		}
		if _, ok := wantField[o.Field]; !ok {
			continue
		}
		if !from.IsZero() && o.Date.Before(from) {
			continue
		}
		if !to.IsZero() && o.Date.After(to) {
			continue
		}
		k := Key{Ticker: o.Ticker, Field: o.Field}
		d := o.Date.UnixNano()
		cells[cell{d, k}] = o.Value
		dates[d] = o.Date
		has[k] = true
	}

	var keys []Key
	for _, t := range tickers {
		for _, fl := range req.Fields {
			k := Key{Ticker: t, Field: fl}
			if has[k] {
				keys = append(keys, k)
			}
		}
	}

	index := make([]time.Time, 0, len(dates))
	for _, ts := range dates {
		index = append(index, ts)
	}
	sort.Slice(index, func(a, b int) bool { return index[a].Before(index[b]) })

	rows := make([][]float64, len(index))
	for i, ts := range index {
		r := make([]float64, len(keys))
		for j, k := range keys {
			v, ok := cells[cell{ts.UnixNano(), k}]
			if !ok {
				v = panel.Missing()
			}
			r[j] = v
		}
		rows[i] = r
	}
	return NewFrame(index, keys, rows)
}

func set(xs []string) map[string]struct{} {
	m := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		m[x] = struct{}{}
	}
	return m
}
