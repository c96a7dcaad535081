package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/seykim2025/kgoverment-proj/internal/core/domain"
)

// HTTPStatusError is a non-2xx reply from a judgment engine or other HTTP
// upstream. Body holds a trimmed excerpt of the reply.
type HTTPStatusError struct {
	Service    string
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "upstream status error"
	}
	msg := fmt.Sprintf("%s %s status: %s", e.Service, e.Operation, e.Status)
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

// transientStatus lists replies that say "try again later" rather than
// "this request is wrong".
var transientStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

func IsRetryableHTTPStatus(statusCode int) bool {
	return transientStatus[statusCode]
}

var (
	notCounted = ErrorClassification{}
	transient  = ErrorClassification{Retryable: true, RecordFailure: true}
	permanent  = ErrorClassification{RecordFailure: true}
)

// ClassifyHTTPError decides whether an upstream HTTP failure may be retried
// and whether it counts against the circuit breaker. A 4xx other than 408
// and 429 is the caller's fault and leaves the breaker alone.
func ClassifyHTTPError(err error) ErrorClassification {
	var statusErr *HTTPStatusError
	var netErr net.Error
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return notCounted
	case IsCircuitOpen(err):
		return transient
	case errors.As(err, &statusErr):
		if IsRetryableHTTPStatus(statusErr.StatusCode) {
			return transient
		}
		return notCounted
	case errors.As(err, &netErr):
		return transient
	default:
		return permanent
	}
}

// WrapTemporaryIfNeeded tags outages (transient replies, network errors, an
// open breaker) with domain.ErrTemporary so adapters answer 503.
func WrapTemporaryIfNeeded(operation string, err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if ClassifyHTTPError(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}
