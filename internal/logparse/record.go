package logparse

import (
	"encoding/json"
	"fmt"
)

// Record is one decoded log line. Numbers are kept as json.Number so that
// coercion can decide between integer and float later.
type Record map[string]any

func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// String returns the first present key rendered as text.
func (r Record) String(keys ...string) string {
	for _, key := range keys {
		v, ok := r[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			return t
		case json.Number:
			return t.String()
		case bool:
			if t {
				return "true"
			}
			return "false"
		default:
			return fmt.Sprint(t)
		}
	}
	return ""
}

// Value returns the raw value of the first present key.
func (r Record) Value(keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (r Record) EventType() string { return r.String("eventType") }

func (r Record) Type() string { return r.String("type") }
