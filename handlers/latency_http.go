package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/nicholasjackson/latency-simulator/errors"
	"github.com/nicholasjackson/latency-simulator/logging"
	"github.com/nicholasjackson/latency-simulator/response"
	"github.com/nicholasjackson/latency-simulator/timing"
)

// LatencyHeader reports the requested delay on successful responses
const LatencyHeader = "X-Simulated-Latency"

// Latency handles requests to simulate latency
type Latency struct {
	logger        *logging.Logger
	simulator     *timing.Simulator
	errorInjector *errors.Injector
}

// NewLatency creates a new latency handler
func NewLatency(l *logging.Logger, s *timing.Simulator, ei *errors.Injector) *Latency {
	return &Latency{
		logger:        l,
		simulator:     s,
		errorInjector: ei,
	}
}

// Handle the request, the response is written once the simulated delay has
// elapsed
func (h *Latency) Handle(rw http.ResponseWriter, r *http.Request) {
	hq := h.logger.HandleHTTPRequest(r)
	defer hq.Finished()

	// are we injecting errors, if so return the error
	if ie := h.errorInjector.Do(); ie != nil {
		hq.SetError(ie.Error)
		hq.SetMetadata("code", strconv.Itoa(ie.Code))

		writeJSON(rw, ie.Code, response.Error{Error: ie.Error.Error()})
		return
	}

	sp := h.logger.SimulateDelay(hq.Span)

	res, err := h.simulator.Simulate()
	if err != nil {
		sp.SetError(err)
		sp.Finished()

		hq.SetError(err)
		hq.SetMetadata("code", strconv.Itoa(http.StatusInternalServerError))

		writeJSON(rw, http.StatusInternalServerError, response.Error{Error: err.Error()})
		return
	}

	sp.SetMetadata("percentile", strconv.Itoa(res.Percentile))
	sp.SetMetadata("band", res.Band.Label)
	sp.SetMetadata("range_ms", res.Band.Range())
	sp.SetMetadata("requested_ms", strconv.Itoa(res.RequestedMs))
	sp.SetMetadata("actual_ms", strconv.FormatFloat(res.ActualMs, 'f', 2, 64))
	sp.Finished()

	hq.SetMetadata("code", strconv.Itoa(http.StatusOK))

	rw.Header().Set(LatencyHeader, fmt.Sprintf("%dms", res.RequestedMs))
	writeJSON(rw, http.StatusOK, response.FromResult(res))
}
