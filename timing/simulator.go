package timing

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// Message is returned with every successful simulation
const Message = "Simulated latency based on profile."

// Result describes a single simulated request
type Result struct {
	Message    string
	Percentile int
	Band       Band
	// TargetMs is the delay drawn from the band
	TargetMs int
	// RequestedMs is the delay passed to the sleep
	RequestedMs int
	// ActualMs is the measured time slept
	ActualMs float64
}

// Simulator draws request delays from a latency profile. A Simulator holds no
// mutable state and is safe for concurrent use.
type Simulator struct {
	profile    Profile
	logger     hclog.Logger
	randomFunc RandomFunc
	sleepFunc  SleepFunc
}

// Option configures a Simulator
type Option func(s *Simulator)

// WithRandomFunc replaces the random number source used for draws
func WithRandomFunc(rf RandomFunc) Option {
	return func(s *Simulator) {
		s.randomFunc = rf
	}
}

// WithSleepFunc replaces the function used to suspend the caller
func WithSleepFunc(sf SleepFunc) Option {
	return func(s *Simulator) {
		s.sleepFunc = sf
	}
}

// NewSimulator creates a new Simulator for the given profile
func NewSimulator(p Profile, l hclog.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		profile:    p,
		logger:     l,
		randomFunc: generateRandom,
		sleepFunc:  time.Sleep,
	}

	for _, o := range opts {
		o(s)
	}

	return s
}

// Profile returns the profile used by the simulator
func (s *Simulator) Profile() Profile {
	return s.profile
}

// Plan validates the profile, draws a percentile and a delay but does not
// sleep
func (s *Simulator) Plan() (*Result, error) {
	b, err := s.profile.Breakpoints()
	if err != nil {
		return nil, err
	}

	p := s.randomFunc(100) + 1
	band := SelectBand(b, p)
	d := SampleDelay(band, s.randomFunc, s.logger)

	return &Result{
		Message:     Message,
		Percentile:  p,
		Band:        band,
		TargetMs:    d,
		RequestedMs: d,
	}, nil
}

// Simulate plans a delay and blocks the calling goroutine until it has
// elapsed
func (s *Simulator) Simulate() (*Result, error) {
	r, err := s.Plan()
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Sleeping for", "duration_ms", r.RequestedMs, "label", r.Band.Label)
	r.ActualMs = Wait(r.RequestedMs, s.sleepFunc)

	return r, nil
}
