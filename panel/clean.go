package panel

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// CleanIndex sorts rows ascending by timestamp, drops duplicate
// timestamps keeping the last occurrence in input order, and drops rows
// where every column is missing.
func CleanIndex(t *Table) (*Table, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}
	// Stable, so rows sharing a timestamp stay in input order and the
	// last of each run is the last one the caller supplied.
	sort.SliceStable(order, func(a, b int) bool {
		return t.index[order[a]].Before(t.index[order[b]])
	})

	keep := make([]int, 0, len(order))
	for k, i := range order {
		if k+1 < len(order) && t.index[order[k+1]].Equal(t.index[i]) {
			continue
		}
		if t.rowAllMissing(i) {
			continue
		}
		keep = append(keep, i)
	}
	return t.take(keep), nil
}

// StandardizeColumns reindexes t to exactly the given columns, in order.
// Columns not present in t come back fully missing and columns of t that
// are not listed are dropped. A nil columns slice returns t unchanged.
func StandardizeColumns(t *Table, columns []string) (*Table, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	if columns == nil {
		return t.clone(), nil
	}

	src := make([]int, len(columns))
	seen := make(map[string]struct{}, len(columns))
	for k, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: column %q requested twice", ErrConfig, c)
		}
		seen[c] = struct{}{}
		src[k] = t.ColumnIndex(c)
	}

	out := &Table{
		index:   t.Index(),
		columns: append([]string(nil), columns...),
		values:  make([][]float64, t.Len()),
	}
	for i, r := range t.values {
		row := missingRow(len(columns))
		for k, j := range src {
			if j >= 0 {
				row[k] = r[j]
			}
		}
		out.values[i] = row
	}
	return out, nil
}

// TrimDateRange keeps rows with start <= ts <= end. Either bound may be
// empty. Bounds are YYYY-MM-DD dates at midnight UTC, or RFC 3339
// timestamps.
func TrimDateRange(t *Table, start, end string) (*Table, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	from, err := ParseBound(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseBound(end)
	if err != nil {
		return nil, err
	}

	keep := make([]int, 0, t.Len())
	for i, ts := range t.index {
		if !from.IsZero() && ts.Before(from) {
			continue
		}
		if !to.IsZero() && ts.After(to) {
			continue
		}
		keep = append(keep, i)
	}
	return t.take(keep), nil
}

// ParseBound parses a date-range bound. The empty string yields the zero
// time, meaning "no bound".
func ParseBound(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: bad date %q (want YYYY-MM-DD)", ErrParse, s)
}
