package service

import (
	"errors"
	"fmt"
)

var ErrMatchExists = errors.New("match already exists")

// DerivationError reports a failed stats or timeline pass. The pass is rolled
// back and the raw events stay in place.
type DerivationError struct {
	Pass    string
	MatchID string
	Err     error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("%s pass failed for match %s: %v", e.Pass, e.MatchID, e.Err)
}

func (e *DerivationError) Unwrap() error { return e.Err }
