package book

import "errors"

// All book errors are local, recoverable conditions surfaced to the
// caller of the operation that detected them.
var (
	ErrUnknownOrder     = errors.New("unknown order id")
	ErrInvalidExecution = errors.New("execution quantity exceeds remaining quantity")
	ErrNotFound         = errors.New("not found")
)
