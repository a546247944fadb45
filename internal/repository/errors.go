package repository

import "fmt"

// PersistenceError wraps a failed write. It aborts the ingest run.
type PersistenceError struct {
	Op      string
	MatchID string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s for match %s: %v", e.Op, e.MatchID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
