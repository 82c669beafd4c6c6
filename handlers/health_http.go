package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/nicholasjackson/latency-simulator/logging"
)

// Health defines the health handler for the service
type Health struct {
	logger     *logging.Logger
	mutex      sync.RWMutex
	statusCode int
}

// NewHealth creates a new health handler
func NewHealth(l *logging.Logger, code int) *Health {
	return &Health{logger: l, statusCode: code}
}

// SetStatusCode changes the code returned by the handler
func (h *Health) SetStatusCode(code int) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.statusCode = code
}

// Handle the request
func (h *Health) Handle(rw http.ResponseWriter, r *http.Request) {
	hq := h.logger.CallHealthHTTP()

	h.mutex.RLock()
	code := h.statusCode
	h.mutex.RUnlock()

	rw.WriteHeader(code)
	fmt.Fprint(rw, OKMessage)

	hq.SetMetadata("code", fmt.Sprintf("%d", code))
	hq.Finished()
}
