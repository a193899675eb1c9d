package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation targets an id that does not
// exist. Callers check it with errors.Is and should refresh their view.
var ErrNotFound = errors.New("not found")

// PartialBatchError reports a multi-step operation that applied some steps
// and failed others. The store does not roll back: the error is returned
// after every step has been attempted, and callers must treat the data as
// partially applied until they re-fetch.
type PartialBatchError struct {
	Op  string
	Err error
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%s partially failed: %v", e.Op, e.Err)
}

func (e *PartialBatchError) Unwrap() error { return e.Err }
