// Package returns converts price tables into return tables.
package returns

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/quant/panel"
)

// Method selects the return definition.
type Method string

const (
	Log    Method = "log"    // ln(p_t / p_{t-1})
	Simple Method = "simple" // (p_t - p_{t-1}) / p_{t-1}
)

// ParseMethod accepts log or simple.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "log":
		return Log, nil
	case "simple":
		return Simple, nil
	default:
		return "", fmt.Errorf("%w: method must be log or simple, got %q", panel.ErrConfig, s)
	}
}

// Options controls FromPrices. The zero value computes log returns and
// drops rows that are entirely missing.
type Options struct {
	Method Method

	// KeepNA keeps rows with no defined return, including the first row.
	KeepNA bool
}

// FromPrices converts prices to returns column by column. Each return uses
// the immediately preceding row, so a missing price on either side gives a
// missing return. Rows keep the input order.
func FromPrices(prices *panel.Table, opts Options) (*panel.Table, error) {
	if prices == nil {
		return nil, fmt.Errorf("%w: nil price table", panel.ErrShape)
	}
	if opts.Method == "" {
		opts.Method = Log
	}
	m, err := ParseMethod(string(opts.Method))
	if err != nil {
		return nil, err
	}

	var f func(prev, cur float64) float64
	switch m {
	case Log:
		f = func(prev, cur float64) float64 { return math.Log(cur / prev) }
	case Simple:
		f = func(prev, cur float64) float64 { return (cur - prev) / prev }
	}

	index := prices.Index()
	cols := prices.Columns()

	outIdx := make([]time.Time, 0, len(index))
	rows := make([][]float64, 0, len(index))
	for i := range index {
		r := make([]float64, len(cols))
		defined := false
		for j := range cols {
			r[j] = math.NaN()
			if i == 0 {
				continue
			}
			prev, cur := prices.At(i-1, j), prices.At(i, j)
			if panel.IsMissing(prev) || panel.IsMissing(cur) {
				continue
			}
			r[j] = f(prev, cur)
			if !panel.IsMissing(r[j]) {
				defined = true
			}
		}
		if !defined && !opts.KeepNA {
			continue
		}
		outIdx = append(outIdx, index[i])
		rows = append(rows, r)
	}

	return panel.NewTable(outIdx, cols, rows)
}
