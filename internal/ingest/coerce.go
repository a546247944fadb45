package ingest

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

var timestampLayouts = []string{
	"2006.01.02-15.04.05",
	"2006-01-02-15:04:05",
}

// ParseTimestamp tries each known log layout in order. The result is UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// CoerceInt converts a decoded value to an int. Values that do not hold an
// integer yield nil.
func CoerceInt(v any) *int {
	switch t := v.(type) {
	case nil:
		return nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			i := int(n)
			return &i
		}
		if f, err := t.Float64(); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			i := int(f)
			return &i
		}
		return nil
	case float64:
		i := int(t)
		return &i
	case int:
		return &t
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// CoerceFloat converts a decoded value to a float64, nil on failure.
func CoerceFloat(v any) *float64 {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case nil:
		return nil
	case json.Number:
		f, err = t.Float64()
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return nil
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
