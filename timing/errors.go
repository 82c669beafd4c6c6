package timing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProfileEmpty is returned when no latency profile has been loaded
var ErrProfileEmpty = errors.New("Latency profile not loaded or is empty. Check server logs.")

// ProfileIncompleteError is returned when required keys are absent or are
// not numeric
type ProfileIncompleteError struct {
	Keys []string
}

func (e *ProfileIncompleteError) Error() string {
	return fmt.Sprintf(
		"Latency profile is missing, or has invalid (non-numeric) values for keys: %s",
		strings.Join(e.Keys, ", "),
	)
}

// ProfileUnorderedError is returned when the profile values do not increase
// from p50 to max
type ProfileUnorderedError struct {
	Breakpoints Breakpoints
}

func (e *ProfileUnorderedError) Error() string {
	b := e.Breakpoints
	return fmt.Sprintf(
		"Latency profile values are not logically ordered (p50 <= p75 <= p90 <= p95 <= p99 <= max). "+
			"Current values: p50=%d, p75=%d, p90=%d, p95=%d, p99=%d, max=%d.",
		b.P50, b.P75, b.P90, b.P95, b.P99, b.Max,
	)
}
