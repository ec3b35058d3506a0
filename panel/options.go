package panel

import (
	"fmt"
	"strings"
)

// Frequency is the sampling frequency of a panel.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"  // Friday-ending weeks
	Monthly Frequency = "monthly" // calendar month ends
)

// AlignMode selects how differing date coverage across columns is
// reconciled.
type AlignMode string

const (
	Inner AlignMode = "inner" // dates where every column has a value
	Outer AlignMode = "outer" // union of dates, then fill
)

// FillMethod is the gap-filling direction used by outer alignment.
type FillMethod string

const (
	Forward  FillMethod = "forward"
	Backward FillMethod = "backward"
	NoFill   FillMethod = "none"
)

// ParseFrequency accepts daily/weekly/monthly and the short codes D/W/M.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "d":
		return Daily, nil
	case "weekly", "w":
		return Weekly, nil
	case "monthly", "m":
		return Monthly, nil
	default:
		return "", fmt.Errorf("%w: unknown frequency %q", ErrConfig, s)
	}
}

// ParseAlignMode accepts inner/outer.
func ParseAlignMode(s string) (AlignMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inner":
		return Inner, nil
	case "outer":
		return Outer, nil
	default:
		return "", fmt.Errorf("%w: unknown align mode %q", ErrConfig, s)
	}
}

// ParseFillMethod accepts forward/backward/none and the aliases ffill/bfill.
func ParseFillMethod(s string) (FillMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "ffill":
		return Forward, nil
	case "backward", "bfill":
		return Backward, nil
	case "none":
		return NoFill, nil
	default:
		return "", fmt.Errorf("%w: unknown fill method %q", ErrConfig, s)
	}
}

// Options controls Build. Zero-valued enum fields take the defaults
// Monthly, Inner and Forward.
type Options struct {
	Frequency Frequency
	Align     AlignMode
	Fill      FillMethod

	// Start and End bound the rows, inclusive. Empty means unbounded.
	Start string
	End   string

	// Columns, when non-nil, fixes the column set and order.
	Columns []string
}

// DefaultOptions returns monthly, inner-aligned, forward-filled options.
func DefaultOptions() Options {
	return Options{Frequency: Monthly, Align: Inner, Fill: Forward}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Frequency == "" {
		o.Frequency = d.Frequency
	}
	if o.Align == "" {
		o.Align = d.Align
	}
	if o.Fill == "" {
		o.Fill = d.Fill
	}
	return o
}

// normalize parses every enum so aliases are accepted and unknown values
// fail before any work is done. The fill method is only checked for outer
// alignment, since inner alignment ignores it.
func (o Options) normalize() (Options, error) {
	o = o.withDefaults()

	f, err := ParseFrequency(string(o.Frequency))
	if err != nil {
		return o, err
	}
	a, err := ParseAlignMode(string(o.Align))
	if err != nil {
		return o, err
	}
	o.Frequency, o.Align = f, a

	if a == Outer {
		fm, err := ParseFillMethod(string(o.Fill))
		if err != nil {
			return o, err
		}
		o.Fill = fm
	}
	return o, nil
}
