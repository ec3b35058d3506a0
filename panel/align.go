package panel

import "fmt"

// Align reconciles the columns of t onto a common date axis. The table is
// cleaned first.
//
// Inner keeps only rows where every column has a value; fill is ignored.
// Outer keeps every date, fills gaps per column with fill, then drops rows
// that are still entirely missing. Partially missing rows survive outer
// alignment, so assets with shorter histories keep their leading gaps.
func Align(t *Table, mode AlignMode, fill FillMethod) (*Table, error) {
	m, err := ParseAlignMode(string(mode))
	if err != nil {
		return nil, err
	}
	c, err := CleanIndex(t)
	if err != nil {
		return nil, err
	}

	if m == Inner {
		keep := make([]int, 0, c.Len())
		for i := range c.index {
			if !c.rowAnyMissing(i) {
				keep = append(keep, i)
			}
		}
		return c.take(keep), nil
	}

	f, err := ParseFillMethod(string(fill))
	if err != nil {
		return nil, err
	}

	out := c.clone()
	switch f {
	case Forward:
		fillForward(out.values)
	case Backward:
		fillBackward(out.values)
	case NoFill:
	default:
		return nil, fmt.Errorf("%w: unknown fill method %q", ErrConfig, fill)
	}

	keep := make([]int, 0, out.Len())
	for i := range out.index {
		if !out.rowAllMissing(i) {
			keep = append(keep, i)
		}
	}
	return out.take(keep), nil
}

func fillForward(rows [][]float64) {
	for i := 1; i < len(rows); i++ {
		for j, v := range rows[i] {
			if IsMissing(v) {
				rows[i][j] = rows[i-1][j]
			}
		}
	}
}

func fillBackward(rows [][]float64) {
	for i := len(rows) - 2; i >= 0; i-- {
		for j, v := range rows[i] {
			if IsMissing(v) {
				rows[i][j] = rows[i+1][j]
			}
		}
	}
}
