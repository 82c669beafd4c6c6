package timing

import "fmt"

// Band labels
const (
	LabelUpToP50  = "<=p50"
	LabelP50ToP75 = ">p50 to p75"
	LabelP75ToP90 = ">p75 to p90"
	LabelP90ToP95 = ">p90 to p95"
	LabelP95ToP99 = ">p95 to p99"
	LabelP99ToMax = ">p99 to max"
)

// Band is the millisecond interval a delay is sampled from
type Band struct {
	Lower int
	Upper int
	Label string
}

// Range returns the band formatted as lower-upper
func (b Band) Range() string {
	return fmt.Sprintf("%d-%d", b.Lower, b.Upper)
}

// SelectBand maps a percentile draw in the range 1-100 to a band.
//
//	100    >p99 to max
//	96-99  >p95 to p99
//	91-95  >p90 to p95
//	76-90  >p75 to p90
//	51-75  >p50 to p75
//	1-50   <=p50
func SelectBand(b Breakpoints, percentile int) Band {
	switch {
	case percentile >= 100:
		return Band{successor(b.P99, b.Max), b.Max, LabelP99ToMax}
	case percentile >= 96:
		return Band{successor(b.P95, b.P99), b.P99, LabelP95ToP99}
	case percentile >= 91:
		return Band{successor(b.P90, b.P95), b.P95, LabelP90ToP95}
	case percentile >= 76:
		return Band{successor(b.P75, b.P90), b.P90, LabelP75ToP90}
	case percentile >= 51:
		return Band{successor(b.P50, b.P75), b.P75, LabelP50ToP75}
	default:
		return Band{0, b.P50, LabelUpToP50}
	}
}

// successor returns the first millisecond above prev, when prev and next are
// equal the band collapses to prev
func successor(prev, next int) int {
	if prev < next {
		return prev + 1
	}

	return prev
}
