package timing

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Profile keys
const (
	KeyP50 = "p50"
	KeyP75 = "p75"
	KeyP90 = "p90"
	KeyP95 = "p95"
	KeyP99 = "p99"
	KeyMax = "max"
)

// requiredKeys in the order they are reported when missing
var requiredKeys = []string{KeyMax, KeyP99, KeyP95, KeyP90, KeyP75, KeyP50}

// Profile is a read only latency profile, a mapping of percentile keys to
// latency values in milliseconds. Values are kept as loaded so that missing
// or non numeric entries can be reported by Validate.
type Profile struct {
	values map[string]interface{}
}

// NewProfile creates a Profile from the given values, the map is copied so
// later changes to values do not affect the Profile
func NewProfile(values map[string]interface{}) Profile {
	v := make(map[string]interface{}, len(values))
	for k, val := range values {
		v[k] = val
	}

	return Profile{values: v}
}

// Len returns the number of entries in the profile
func (p Profile) Len() int {
	return len(p.values)
}

// Value returns the raw value for key
func (p Profile) Value(key string) (interface{}, bool) {
	v, ok := p.values[key]
	return v, ok
}

// MissingKeys returns the required keys which are absent or do not hold a
// numeric value
func (p Profile) MissingKeys() []string {
	missing := []string{}
	for _, k := range requiredKeys {
		if _, ok := toMillis(p.values[k]); !ok {
			missing = append(missing, k)
		}
	}

	return missing
}

// Validate checks the profile can be used to simulate latency
func (p Profile) Validate() error {
	_, err := p.Breakpoints()
	return err
}

// Breakpoints validates the profile and returns its values in milliseconds
func (p Profile) Breakpoints() (Breakpoints, error) {
	if len(p.values) == 0 {
		return Breakpoints{}, ErrProfileEmpty
	}

	if missing := p.MissingKeys(); len(missing) > 0 {
		return Breakpoints{}, &ProfileIncompleteError{Keys: missing}
	}

	b := Breakpoints{}
	b.P50, _ = toMillis(p.values[KeyP50])
	b.P75, _ = toMillis(p.values[KeyP75])
	b.P90, _ = toMillis(p.values[KeyP90])
	b.P95, _ = toMillis(p.values[KeyP95])
	b.P99, _ = toMillis(p.values[KeyP99])
	b.Max, _ = toMillis(p.values[KeyMax])

	if !b.Ordered() {
		return Breakpoints{}, &ProfileUnorderedError{Breakpoints: b}
	}

	return b, nil
}

// String returns the profile entries sorted by key
func (p Profile) String() string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, p.values[k]))
	}

	return strings.Join(parts, " ")
}

// Breakpoints are the six percentile values of a profile in milliseconds
type Breakpoints struct {
	P50 int
	P75 int
	P90 int
	P95 int
	P99 int
	Max int
}

// Ordered reports whether p50 <= p75 <= p90 <= p95 <= p99 <= max
func (b Breakpoints) Ordered() bool {
	return b.P50 <= b.P75 &&
		b.P75 <= b.P90 &&
		b.P90 <= b.P95 &&
		b.P95 <= b.P99 &&
		b.P99 <= b.Max
}

// MaxMillis is the largest profile value accepted, larger delays can not be
// expressed as a time.Duration
const MaxMillis = math.MaxInt64 / int64(time.Millisecond)

// toMillis converts a numeric profile value to whole milliseconds, fractions
// are truncated toward zero. Values outside +/-MaxMillis are not numeric for
// the purposes of a profile.
func toMillis(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return intMillis(int64(n))
	case int8:
		return intMillis(int64(n))
	case int16:
		return intMillis(int64(n))
	case int32:
		return intMillis(int64(n))
	case int64:
		return intMillis(n)
	case uint:
		return uintMillis(uint64(n))
	case uint8:
		return uintMillis(uint64(n))
	case uint16:
		return uintMillis(uint64(n))
	case uint32:
		return uintMillis(uint64(n))
	case uint64:
		return uintMillis(n)
	case float32:
		return floatMillis(float64(n))
	case float64:
		return floatMillis(n)
	}

	return 0, false
}

func intMillis(n int64) (int, bool) {
	if n > MaxMillis || n < -MaxMillis {
		return 0, false
	}

	return int(n), true
}

func uintMillis(n uint64) (int, bool) {
	if n > uint64(MaxMillis) {
		return 0, false
	}

	return int(n), true
}

func floatMillis(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	t := math.Trunc(f)
	if t > float64(MaxMillis) || t < -float64(MaxMillis) {
		return 0, false
	}

	return int(t), true
}
