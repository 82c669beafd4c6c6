package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/nicholasjackson/latency-simulator/logging"
)

const (
	OKMessage       = "OK"
	StartingMessage = "Starting Process"
)

// Ready defines the readiness handler for the service
type Ready struct {
	logger        *logging.Logger
	mutex         sync.RWMutex
	statusCode    int
	statusMessage string
}

// NewReady creates a new ready handler, until delay has passed the handler
// returns http.StatusServiceUnavailable
func NewReady(logger *logging.Logger, code int, delay time.Duration) *Ready {
	r := &Ready{
		logger:        logger,
		statusCode:    code,
		statusMessage: OKMessage,
	}

	if delay != 0 {
		r.statusCode = http.StatusServiceUnavailable
		r.statusMessage = StartingMessage

		time.AfterFunc(delay, func() {
			r.mutex.Lock()
			defer r.mutex.Unlock()

			r.statusCode = code
			r.statusMessage = OKMessage
		})
	}

	return r
}

// Handle the request
func (h *Ready) Handle(rw http.ResponseWriter, r *http.Request) {
	hq := h.logger.CallReadyHTTP()

	h.mutex.RLock()
	code, message := h.statusCode, h.statusMessage
	h.mutex.RUnlock()

	rw.WriteHeader(code)
	fmt.Fprint(rw, message)

	hq.SetMetadata("code", fmt.Sprintf("%d", code))
	hq.Finished()
}
