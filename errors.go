package img2glyph

import (
	"errors"
	"fmt"
)

// ErrNonFiniteScore is returned when a metric produces NaN or an infinity.
// It always indicates a defect in the inputs or a metric, never a
// transient condition.
var ErrNonFiniteScore = errors.New("non-finite score")

// ConfigurationError reports an invalid glyph model or converter setup.
// It is always returned before any frame is processed.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "img2glyph: invalid configuration: " + e.Msg
	}
	return fmt.Sprintf("img2glyph: invalid %s: %s", e.Field, e.Msg)
}

func configErrorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// InputError reports a frame that cannot be converted. Frame is the index
// of the offending frame within its sequence, or -1 for a single frame.
type InputError struct {
	Frame int
	Msg   string
}

func (e *InputError) Error() string {
	if e.Frame < 0 {
		return "img2glyph: invalid input: " + e.Msg
	}
	return fmt.Sprintf("img2glyph: invalid input: frame %d: %s", e.Frame, e.Msg)
}

func inputErrorf(frame int, format string, args ...any) *InputError {
	return &InputError{Frame: frame, Msg: fmt.Sprintf(format, args...)}
}
