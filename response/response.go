package response

import (
	"bytes"
	"encoding/json"

	"github.com/nicholasjackson/latency-simulator/timing"
)

// Response is the body returned for a simulated request
type Response struct {
	Message                   string  `json:"message"`
	RandomDrawPercentile      int     `json:"random_draw_percentile"`
	TargetLatencyBandLabel    string  `json:"target_latency_band_label"`
	CalculatedLatencyTargetMs int     `json:"calculated_latency_target_ms"`
	ConceptualLatencyRangeMs  string  `json:"conceptual_latency_range_ms"`
	RequestedSleepMs          int     `json:"requested_sleep_ms"`
	ActualSleptMs             float64 `json:"actual_slept_ms"`
}

// Error is the body returned when a request fails
type Error struct {
	Error string `json:"error"`
}

// FromResult creates a Response from a simulation result
func FromResult(r *timing.Result) *Response {
	return &Response{
		Message:                   r.Message,
		RandomDrawPercentile:      r.Percentile,
		TargetLatencyBandLabel:    r.Band.Label,
		CalculatedLatencyTargetMs: r.TargetMs,
		ConceptualLatencyRangeMs:  r.Band.Range(),
		RequestedSleepMs:          r.RequestedMs,
		ActualSleptMs:             r.ActualMs,
	}
}

// ToJSON encodes v as indented JSON
func ToJSON(v interface{}) string {
	buffer := new(bytes.Buffer)
	encoder := json.NewEncoder(buffer)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(v)
	if err != nil {
		panic(err)
	}

	return buffer.String()
}

// ToJSON encodes the response
func (r *Response) ToJSON() string {
	return ToJSON(r)
}

// FromJSON decodes the response from d
func (r *Response) FromJSON(d []byte) error {
	resp := &Response{}
	err := json.Unmarshal(d, resp)
	if err != nil {
		return err
	}

	*r = *resp

	return nil
}
