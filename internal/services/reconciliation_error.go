package services

import "fmt"

// ReconciliationError wraps any persistence failure inside a reconciliation
// transaction. The transaction has already been rolled back by the time the
// caller sees one.
type ReconciliationError struct {
	Op  string
	Err error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed during %s: %v", e.Op, e.Err)
}

func (e *ReconciliationError) Unwrap() error {
	return e.Err
}
