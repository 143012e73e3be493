package storage

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// StoreError wraps any persistence I/O failure. Callers decide whether to
// retry or leave the item unresolved for the batch reprocessor; the store
// itself never retries and never swallows.
type StoreError struct {
	Op   string
	Code string
	Err  error
}

// Error renders the operation, the driver code when known, and the cause.
func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("store %s (%s): %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap exposes the driver error.
func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}

	code := ""
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		code = string(pqErr.Code)
	}
	return &StoreError{Op: op, Code: code, Err: err}
}
