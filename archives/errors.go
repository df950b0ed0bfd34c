package archives

import "errors"

// Common errors for the archive operations.
var (
	// ErrUnsupportedFormat indicates that the archive suffix is not one this package handles.
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	// ErrCorruptArchive indicates that listing or extracting the archive failed at the container level.
	ErrCorruptArchive = errors.New("corrupt archive")
	// ErrNotFound indicates that a required member, pattern match or pre-existing archive is absent.
	ErrNotFound = errors.New("not found")
	// ErrMalformedMarkup indicates that an archived member could not be parsed as markup.
	ErrMalformedMarkup = errors.New("malformed markup")
	// ErrAmbiguousResult indicates that a single result was requested but several were produced.
	ErrAmbiguousResult = errors.New("ambiguous result")
)
