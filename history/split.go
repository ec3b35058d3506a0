package history

import (
	"fmt"

	"github.com/rustyeddy/quant/panel"
)

// SplitFields breaks a frame into one table per field, with tickers as
// columns. Tickers and fields are first renamed through the optional maps;
// labels without a mapping are kept. Each table drops rows where every
// ticker is missing and is sorted by date.
func SplitFields(f *Frame, tickerNames, fieldNames map[string]string) (map[string]*panel.Table, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	keys := renameKeys(f.keys, tickerNames, fieldNames)
	if err := checkUnique(keys); err != nil {
		return nil, err
	}

	var fields []string
	byField := make(map[string][]int)
	for j, k := range keys {
		if _, ok := byField[k.Field]; !ok {
			fields = append(fields, k.Field)
		}
		byField[k.Field] = append(byField[k.Field], j)
	}

	out := make(map[string]*panel.Table, len(fields))
	for _, fl := range fields {
		src := byField[fl]
		cols := make([]string, len(src))
		for c, j := range src {
			cols[c] = keys[j].Ticker
		}

		rows := make([][]float64, f.Len())
		for i := range rows {
			r := make([]float64, len(src))
			for c, j := range src {
				r[c] = f.values[i][j]
			}
			rows[i] = r
		}

		t, err := panel.NewTable(f.index, cols, rows)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fl, err)
		}
		if t, err = panel.CleanIndex(t); err != nil {
			return nil, fmt.Errorf("field %q: %w", fl, err)
		}
		out[fl] = t
	}
	return out, nil
}

// Flatten renames like SplitFields and returns a single table whose
// columns are labelled "<ticker>-<field>", in frame column order.
func Flatten(f *Frame, tickerNames, fieldNames map[string]string) (*panel.Table, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	keys := renameKeys(f.keys, tickerNames, fieldNames)
	if err := checkUnique(keys); err != nil {
		return nil, err
	}

	cols := make([]string, len(keys))
	for j, k := range keys {
		cols[j] = k.String()
	}
	return panel.NewTable(f.index, cols, f.values)
}

func renameKeys(keys []Key, tickerNames, fieldNames map[string]string) []Key {
	out := make([]Key, len(keys))
	for j, k := range keys {
		if n, ok := tickerNames[k.Ticker]; ok {
			k.Ticker = n
		}
		if n, ok := fieldNames[k.Field]; ok {
			k.Field = n
		}
		out[j] = k
	}
	return out
}

func checkUnique(keys []Key) error {
	seen := make(map[Key]struct{}, len(keys))
	for _, k := range keys {
		if k.Ticker == "" || k.Field == "" {
			return fmt.Errorf("%w: rename produced an empty label for %s", panel.ErrShape, k)
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: rename maps two columns onto %s", panel.ErrShape, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}
