package panel

import "errors"

// Error kinds. Operations wrap one of these with context, so callers can
// test with errors.Is.
var (
	// ErrShape means the table is not a well-formed time-indexed table, or
	// a vendor frame lacks the (ticker, field) column structure.
	ErrShape = errors.New("shape error")

	// ErrConfig means an unrecognized frequency, align mode, fill method or
	// returns method, or an empty field list.
	ErrConfig = errors.New("configuration error")

	// ErrParse means a date, a number or an input file could not be parsed.
	ErrParse = errors.New("parse error")
)
