package ingest

import "fmt"

// TransformError reports a classified record that lacks a mandatory field.
type TransformError struct {
	Category Category
	Field    string
	Line     int
}

func (e *TransformError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("record %d: %s event missing %s", e.Line, e.Category, e.Field)
	}
	return fmt.Sprintf("%s event missing %s", e.Category, e.Field)
}
