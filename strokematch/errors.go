package strokematch

import "github.com/pkg/errors"

var (
	// ErrMismatchedStrokeCount is returned when reference and user stroke counts differ.
	// It is never reported as a numeric score
	ErrMismatchedStrokeCount = errors.New("mismatched stroke count")
	// ErrDegenerateStroke is returned for single-point or zero-length strokes
	ErrDegenerateStroke = errors.New("degenerate stroke")
	// ErrInvalidParameters is returned for n < 2 on resampling, zero trials, NaN/Inf transform parameters and so on
	ErrInvalidParameters = errors.New("invalid parameters")
)
