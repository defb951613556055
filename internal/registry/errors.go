package registry

import "errors"

// Configuration-integrity errors. Build wraps them with the offending cursor
// name or path; match with errors.Is.
var (
	ErrDuplicateCursorName = errors.New("duplicate cursor name")
	ErrMissingCursorFile   = errors.New("cursor file not found")
	ErrMissingCursorName   = errors.New("unknown cursor name")
	ErrCursorLoad          = errors.New("failed to load cursor image")
)
