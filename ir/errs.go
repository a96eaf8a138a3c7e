package ir

import "errors"

var (
	// ErrUndefinedKey reports a dotted key or path element that does
	// not resolve against the document.
	ErrUndefinedKey = errors.New("undefined key")

	// ErrWrongType reports traversal through a non-container value.
	ErrWrongType = errors.New("wrong type")
)
