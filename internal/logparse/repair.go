package logparse

import "strings"

// Repair normalizes one raw log line into a standalone JSON object. The
// second result is false when the line carries no record (blank lines and
// the bare brackets of an array dump).
func Repair(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if s == "" || s == "[" || s == "]" {
		return "", false
	}

	s = strings.TrimSuffix(s, ",")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	if strings.HasPrefix(s, "{") && !strings.HasSuffix(s, "}") {
		s += "}"
	}
	return s, true
}
