// Package panel canonicalizes multi-asset price tables: it cleans the
// time index, trims to a date window, resamples to period ends and aligns
// columns onto a common date axis.
//
// Every function is a pure transform. Inputs are never modified and the
// package does no I/O and no logging.
package panel

import "fmt"

// MarketPanel is an aligned price table at a chosen frequency, together
// with the policy that produced it. It is a read-only snapshot created by
// Build.
type MarketPanel struct {
	prices    *Table
	frequency Frequency
	align     AlignMode
	fill      FillMethod
}

func newMarketPanel(prices *Table, o Options) (MarketPanel, error) {
	if err := prices.validate(); err != nil {
		return MarketPanel{}, err
	}
	if _, err := ParseFrequency(string(o.Frequency)); err != nil {
		return MarketPanel{}, err
	}
	if _, err := ParseAlignMode(string(o.Align)); err != nil {
		return MarketPanel{}, err
	}
	return MarketPanel{
		prices:    prices,
		frequency: o.Frequency,
		align:     o.Align,
		fill:      o.Fill,
	}, nil
}

// Prices returns the panel's price table.
func (p MarketPanel) Prices() *Table { return p.prices }

// Frequency returns the sampling frequency used to build the panel.
func (p MarketPanel) Frequency() Frequency { return p.frequency }

// Align returns the alignment mode used to build the panel.
func (p MarketPanel) Align() AlignMode { return p.align }

// Fill returns the fill method used to build the panel. It has no effect
// on inner-aligned panels.
func (p MarketPanel) Fill() FillMethod { return p.fill }

func (p MarketPanel) String() string {
	rows, cols := 0, 0
	if p.prices != nil {
		rows, cols = p.prices.Len(), p.prices.Width()
	}
	return fmt.Sprintf("MarketPanel{%s %s fill=%s rows=%d cols=%d}",
		p.frequency, p.align, p.fill, rows, cols)
}

// Build runs the canonical pipeline over a raw price table:
//
//	standardize columns -> clean index -> trim -> resample -> align
//
// Trimming happens before resampling so a period-end sample never reaches
// outside the window, and alignment runs on the resampled dates.
func Build(prices *Table, opts Options) (MarketPanel, error) {
	o, err := opts.normalize()
	if err != nil {
		return MarketPanel{}, err
	}

	p, err := StandardizeColumns(prices, o.Columns)
	if err != nil {
		return MarketPanel{}, err
	}
	if p, err = CleanIndex(p); err != nil {
		return MarketPanel{}, err
	}
	if p, err = TrimDateRange(p, o.Start, o.End); err != nil {
		return MarketPanel{}, err
	}
	if p, err = Resample(p, o.Frequency); err != nil {
		return MarketPanel{}, err
	}
	if p, err = Align(p, o.Align, o.Fill); err != nil {
		return MarketPanel{}, err
	}

	return newMarketPanel(p, o)
}
