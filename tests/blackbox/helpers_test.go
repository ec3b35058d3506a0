//go:build blackbox

package blackbox

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"
)

func contains(s, sub string) bool { return strings.Contains(s, sub) }

// writeObservationsCSV writes one PX_LAST row per weekday for each ticker.
func writeObservationsCSV(t *testing.T, path string, tickers []string, from time.Time, days int, price func(ticker string, i int) float64) {
	t.Helper()

	var b strings.Builder
	b.WriteString("date,ticker,field,value\n")
	d := from
	for i := 0; i < days; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		for _, tk := range tickers {
			fmt.Fprintf(&b, "%s,%s,PX_LAST,%.4f\n", d.Format(time.DateOnly), tk, price(tk, i))
		}
		i++
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
}
