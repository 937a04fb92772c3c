package wordle

import (
	"errors"
	"fmt"
)

// Sentinel errors. Detailed errors returned by this package wrap one of these,
// so callers should test with errors.Is.
var (
	ErrLengthMismatch = errors.New("length mismatch")
	ErrInvalidDigit   = errors.New("invalid ternary digit")
	ErrEmptyPool      = errors.New("empty pool")
	ErrInvalidWord    = errors.New("invalid word")
)

// InputError describes a rejected input value.
type InputError struct {
	Op    string // operation that rejected the input, e.g. "parse grade"
	Input string
	Err   error // one of the sentinels above
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Input, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

func inputErr(op, input string, err error) error {
	return &InputError{Op: op, Input: input, Err: err}
}
