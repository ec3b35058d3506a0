package history

import "context"

// Static serves a fixed set of observations. It is handy as a test double
// and for small fixture files.
type Static struct {
	Observations []Observation
}

// History pivots the observations matching req.
func (s *Static) History(ctx context.Context, req Request) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Pivot(req, s.Observations)
}
