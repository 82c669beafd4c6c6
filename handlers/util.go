package handlers

import (
	"net/http"

	"github.com/nicholasjackson/latency-simulator/response"
)

func writeJSON(rw http.ResponseWriter, status int, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	// the client may have gone away, nothing to be done with the error
	_, _ = rw.Write([]byte(response.ToJSON(v)))
}
