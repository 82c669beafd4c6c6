package errors

import (
	"errors"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"
)

// ErrorInjection is returned when a request is failed on purpose
var ErrorInjection = errors.New("Service error automatically injected")

// ErrorRateLimit is returned when the request rate limit is exceeded
var ErrorRateLimit = errors.New("Service exceeded rate limit")

// InjectedError is an error and the HTTP status code to return with it
type InjectedError struct {
	Code  int
	Error error
}

// Injector fails a percentage of requests and optionally rate limits them.
// Both are disabled when the rate and limit are zero.
type Injector struct {
	logger          hclog.Logger
	errorPercentage float64
	errorCode       int
	rateLimitRPS    float64
	rateLimitCode   int

	mutex        sync.Mutex
	requestCount int
	limiter      *rate.Limiter
}

// NewInjector creates a new Injector, errorPercentage is a value between 0
// and 1, rateLimitRPS the number of requests per second allowed
func NewInjector(l hclog.Logger, errorPercentage float64, errorCode int, rateLimitRPS float64, rateLimitCode int) *Injector {
	i := &Injector{
		logger:          l,
		errorPercentage: errorPercentage,
		errorCode:       errorCode,
		rateLimitRPS:    rateLimitRPS,
		rateLimitCode:   rateLimitCode,
	}

	if rateLimitRPS > 0 {
		burst := int(rateLimitRPS)
		if burst < 1 {
			burst = 1
		}

		i.limiter = rate.NewLimiter(rate.Limit(rateLimitRPS), burst)
	}

	return i
}

// SetErrorPercentage changes the percentage of requests which fail
func (i *Injector) SetErrorPercentage(p float64) {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	i.errorPercentage = p
	i.requestCount = 0
}

// Do returns an InjectedError when the current request should fail, rate
// limiting takes precedence over error injection
func (i *Injector) Do() *InjectedError {
	if i.limiter != nil && !i.limiter.Allow() {
		i.logger.Info("Rate limit exceeded", "rps", i.rateLimitRPS, "code", i.rateLimitCode)
		return &InjectedError{Code: i.rateLimitCode, Error: ErrorRateLimit}
	}

	i.mutex.Lock()
	defer i.mutex.Unlock()

	if i.errorPercentage <= 0 {
		return nil
	}

	// fail every nth request where n is derived from the percentage
	i.requestCount++
	if float64(i.requestCount) < 1/i.errorPercentage {
		return nil
	}

	i.requestCount = 0
	i.logger.Info("Injecting error", "percentage", i.errorPercentage, "code", i.errorCode)

	return &InjectedError{Code: i.errorCode, Error: ErrorInjection}
}
