package nlt

import (
	"errors"
	"fmt"
)

// Sentinel errors for NLT API operations.
var (
	ErrNotFound     = errors.New("nlt: passage not found")
	ErrRateLimited  = errors.New("nlt: rate limited by server")
	ErrBadRequest   = errors.New("nlt: bad request")
	ErrUnauthorized = errors.New("nlt: invalid or missing API key")
	ErrServer       = errors.New("nlt: server error")
	ErrEmptyChapter = errors.New("nlt: no verses in response")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op  string // Operation: "getChapter", "search", "parseReference"
	Ref string // Passage reference or search query, if applicable
	Err error
}

func (e *Error) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("nlt %s [%s]: %v", e.Op, e.Ref, e.Err)
	}
	return fmt.Sprintf("nlt %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, ref string, err error) error {
	return &Error{
		Op:  op,
		Ref: ref,
		Err: err,
	}
}
