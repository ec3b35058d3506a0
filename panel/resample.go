package panel

import (
	"fmt"
	"time"
)

// Resample downsamples t to period-end observations. The table is
// cleaned first. Each column of a bucket takes its last non-missing value
// in that bucket; buckets without observations are not emitted.
//
// Daily returns the cleaned table. Weekly buckets end on Friday, monthly
// buckets on the last day of the month; rows are labelled with that end
// date at midnight, in the location of the timestamps.
func Resample(t *Table, freq Frequency) (*Table, error) {
	f, err := ParseFrequency(string(freq))
	if err != nil {
		return nil, err
	}
	c, err := CleanIndex(t)
	if err != nil {
		return nil, err
	}

	var label func(time.Time) time.Time
	switch f {
	case Daily:
		return c, nil
	case Weekly:
		label = weekEnd
	case Monthly:
		label = monthEnd
	default:
		return nil, fmt.Errorf("%w: unknown frequency %q", ErrConfig, freq)
	}

	out := &Table{columns: c.Columns()}
	var cur []float64
	var curLabel time.Time
	flush := func() {
		if cur == nil {
			return
		}
		for _, v := range cur {
			if !IsMissing(v) {
				out.index = append(out.index, curLabel)
				out.values = append(out.values, cur)
				break
			}
		}
		cur = nil
	}

	for i, ts := range c.index {
		l := label(ts)
		if cur == nil || !l.Equal(curLabel) {
			flush()
			cur = missingRow(c.Width())
			curLabel = l
		}
		for j, v := range c.values[i] {
			if !IsMissing(v) {
				cur[j] = v
			}
		}
	}
	flush()

	return out, nil
}

// weekEnd returns the Friday on or after ts.
func weekEnd(ts time.Time) time.Time {
	y, m, d := ts.Date()
	ahead := (int(time.Friday) - int(ts.Weekday()) + 7) % 7
	return time.Date(y, m, d+ahead, 0, 0, 0, 0, ts.Location())
}

// monthEnd returns the last calendar day of ts's month.
func monthEnd(ts time.Time) time.Time {
	y, m, _ := ts.Date()
	return time.Date(y, m+1, 0, 0, 0, 0, 0, ts.Location())
}
