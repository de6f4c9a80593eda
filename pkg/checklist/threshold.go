package checklist

import "time"

// CalculateThresholdStatus classifies a numeric value into the band defined by
// min, max and threshold: outside [min, max] is Failed, at or above threshold is
// Passed, and [min, threshold) is Considered. Without a threshold any value
// inside the bounds passes.
func CalculateThresholdStatus(value float64, minValue, maxValue, threshold *float64) Status {
	if minValue != nil && value < *minValue {
		return StatusFailed
	}
	if maxValue != nil && value > *maxValue {
		return StatusFailed
	}
	if threshold == nil {
		return StatusPassed
	}
	if value >= *threshold {
		return StatusPassed
	}
	return StatusConsidered
}

// CheckGracePeriod compares calendar days. A submission on or before the
// deadline passes; up to graceDays after it, inclusive, it is Considered.
func CheckGracePeriod(deadline, submitted time.Time, graceDays int) Status {
	deadline = calendarDay(deadline)
	submitted = calendarDay(submitted)

	if !submitted.After(deadline) {
		return StatusPassed
	}
	if graceDays <= 0 {
		return StatusFailed
	}
	if !submitted.After(deadline.AddDate(0, 0, graceDays)) {
		return StatusConsidered
	}
	return StatusFailed
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
