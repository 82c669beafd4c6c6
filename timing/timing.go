package timing

import (
	"math"
	"math/rand"
	"time"

	"github.com/hashicorp/go-hclog"
)

// RandomFunc returns a random number in the range [0, max)
type RandomFunc func(max int) int

// SleepFunc suspends the caller for the given duration
type SleepFunc func(d time.Duration)

// generate a random number
func generateRandom(max int) int {
	return rand.Intn(max)
}

// SampleDelay draws a delay in milliseconds from the inclusive range of the
// band. An inverted band can not be produced from a valid profile, if one is
// seen a warning is logged and the upper bound is used.
func SampleDelay(b Band, rf RandomFunc, l hclog.Logger) int {
	var d int

	switch {
	case b.Lower > b.Upper:
		d = b.Upper
		l.Warn(
			"Calculated lower bound is greater than upper bound, defaulting delay to upper bound",
			"label", b.Label,
			"lower_ms", b.Lower,
			"upper_ms", b.Upper,
			"delay_ms", d,
		)
	case b.Lower == b.Upper:
		d = b.Lower
	default:
		d = b.Lower + rf(b.Upper-b.Lower+1)
	}

	if d < 0 {
		return 0
	}

	return d
}

// Wait sleeps for ms milliseconds and returns the measured wall clock time
// in milliseconds rounded to two decimal places
func Wait(ms int, sleep SleepFunc) float64 {
	if ms <= 0 {
		return 0
	}

	st := time.Now()
	sleep(time.Duration(ms) * time.Millisecond)

	return roundMillis(time.Since(st))
}

func roundMillis(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}
