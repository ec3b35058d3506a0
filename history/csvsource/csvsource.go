// Package csvsource serves historical observations from long-format CSV
// files:
//
//	date,ticker,field,value
//
// where date is YYYY-MM-DD or RFC 3339. A header row is allowed, blank
// lines are skipped and an empty value is a missing observation.
package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/quant/history"
	"github.com/rustyeddy/quant/panel"
)

// Source reads Path on every request.
type Source struct {
	Path string
	Log  zerolog.Logger
}

// New returns a source for path that does not log.
func New(path string) *Source {
	return &Source{Path: path, Log: zerolog.Nop()}
}

// History implements history.Source.
func (s *Source) History(ctx context.Context, req history.Request) (*history.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	obs, err := ReadObservations(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	s.Log.Debug().
		Str("path", s.Path).
		Int("observations", len(obs)).
		Strs("tickers", req.Tickers).
		Strs("fields", req.Fields).
		Msg("csv history loaded")

	return history.Pivot(req, obs)
}

// ReadObservations parses every observation in r.
func ReadObservations(r io.Reader) ([]history.Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []history.Observation
	sawFirst := false
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		// Allow a single header row
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "date") {
				continue
			}
		}

		o, ok, err := parseRow(row)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if ok {
			out = append(out, o)
		}
	}
}

func parseRow(row []string) (history.Observation, bool, error) {
	if len(row) < 4 {
		return history.Observation{}, false, fmt.Errorf("%w: want date,ticker,field,value; got %d columns",
			panel.ErrParse, len(row))
	}

	ds := strings.TrimSpace(row[0])
	if ds == "" {
		return history.Observation{}, false, fmt.Errorf("%w: empty date", panel.ErrParse)
	}
	d, err := panel.ParseBound(ds)
	if err != nil {
		return history.Observation{}, false, err
	}

	o := history.Observation{
		Date:   d,
		Ticker: strings.TrimSpace(row[1]),
		Field:  strings.TrimSpace(row[2]),
		Value:  panel.Missing(),
	}
	if o.Ticker == "" || o.Field == "" {
		return history.Observation{}, false, fmt.Errorf("%w: empty ticker or field", panel.ErrShape)
	}

	vs := strings.TrimSpace(row[3])
	if vs != "" {
		v, err := strconv.ParseFloat(vs, 64)
		if err != nil {
			return history.Observation{}, false, fmt.Errorf("%w: bad value %q", panel.ErrParse, vs)
		}
		o.Value = v
	}
	return o, true, nil
}

// WriteObservations writes obs with a header row.
func WriteObservations(w io.Writer, obs []history.Observation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "ticker", "field", "value"}); err != nil {
		return err
	}
	for _, o := range obs {
		v := ""
		if !panel.IsMissing(o.Value) {
			v = strconv.FormatFloat(o.Value, 'f', -1, 64)
		}
		if err := cw.Write([]string{o.Date.Format("2006-01-02"), o.Ticker, o.Field, v}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
