package analytics

import "smite-parser/internal/constants"

// ClampImportance bounds a score to the 1..10 scale.
func ClampImportance(v int) int {
	return max(constants.MinImportance, min(constants.MaxImportance, v))
}

// ScaleImportance maps a magnitude at or above threshold onto [lo, hi],
// one point per step above the threshold.
func ScaleImportance(value, threshold, step, lo, hi int) int {
	if step <= 0 || value < threshold {
		return ClampImportance(lo)
	}
	return ClampImportance(min(hi, lo+(value-threshold)/step))
}
