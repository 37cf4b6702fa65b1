package domain

import "errors"

var (
	ErrMissingField        = errors.New("configured field missing from document")
	ErrOutOfOrder          = errors.New("posting appended out of news id order")
	ErrMalformedQuery      = errors.New("malformed query")
	ErrWildcardUnsupported = errors.New("wildcard queries are not supported")
	ErrPositionalDisabled  = errors.New("positional index not built")
	ErrStemmingDisabled    = errors.New("stem index not built")
)
