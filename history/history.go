// Package history is the boundary to historical market data vendors. A
// Source answers a Request with a two-level (ticker, field) Frame; the
// helpers here validate that frame and split it into per-field panels.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/quant/panel"
)

// Request asks a Source for historical data.
type Request struct {
	Tickers []string
	Fields  []string
	Start   string // YYYY-MM-DD, inclusive, optional
	End     string // YYYY-MM-DD, inclusive, optional
}

func (r Request) bounds() (time.Time, time.Time, error) {
	from, err := panel.ParseBound(r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := panel.ParseBound(r.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// Validate checks that at least one field is requested and that the date
// bounds parse.
func (r Request) Validate() error {
	if len(r.Fields) == 0 {
		return fmt.Errorf("%w: fields must contain at least one field", panel.ErrConfig)
	}
	_, _, err := r.bounds()
	return err
}

// Source fetches historical observations.
type Source interface {
	History(ctx context.Context, req Request) (*Frame, error)
}

// Fetch validates req, asks src for data and returns the frame sorted by
// date. A frame without the (ticker, field) column structure is a shape
// error.
func Fetch(ctx context.Context, src Source, req Request) (*Frame, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	f, err := src.History(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return f.sorted(), nil
}

// FieldPanels fetches req from src and splits the result by field. See
// SplitFields for the renaming rules.
func FieldPanels(ctx context.Context, src Source, req Request, tickerNames, fieldNames map[string]string) (map[string]*panel.Table, error) {
	f, err := Fetch(ctx, src, req)
	if err != nil {
		return nil, err
	}
	return SplitFields(f, tickerNames, fieldNames)
}
