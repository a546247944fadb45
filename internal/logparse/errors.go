package logparse

import "fmt"

// DecodeError reports a line that could not be decoded into a record.
type DecodeError struct {
	Line int
	Text string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: failed to decode record: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
