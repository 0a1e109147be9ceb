// Package retry implements the engine's Retry Policy (spec.md §4.3): a
// stateless classifier deciding whether an attempt's outcome warrants
// another attempt, and the exponential-backoff delay before it.
package retry

import (
	"errors"
	"net"
	"syscall"

	"github.com/thavarshan/fetch-go/internal/core/domain"
	"github.com/thavarshan/fetch-go/internal/core/ports"
	"github.com/thavarshan/fetch-go/internal/util"
)

// Policy holds no state beyond its methods; every decision is derived
// purely from the outcome and the RetryConfig passed in, per spec.md §4.3.
type Policy struct{}

// New returns the default Retry Policy.
func New() Policy {
	return Policy{}
}

// ShouldRetry reports whether attempt should be followed by another,
// given outcome and cfg. Attempts are 1-indexed; MaxAttempts counts total
// tries, so a reached ceiling always says no regardless of outcome.
func (Policy) ShouldRetry(outcome ports.RetryOutcome, attempt int, cfg domain.RetryConfig) bool {
	if attempt >= cfg.MaxAttempts {
		return false
	}

	if outcome.Err != nil {
		if outcome.Err.Kind == domain.ErrHTTPStatus && outcome.Response != nil {
			_, ok := cfg.RetryStatusCodes[outcome.Response.StatusCode]
			return ok
		}
		if _, ok := cfg.RetryExceptions[outcome.Err.Kind]; ok {
			return true
		}
		return isConnectionError(outcome.Err.Err)
	}

	if outcome.Response != nil {
		_, ok := cfg.RetryStatusCodes[outcome.Response.StatusCode]
		return ok
	}

	return false
}

// DelayMs returns the exponential backoff (ms) to wait before the attempt
// after attempt, per spec.md §4.3's delay_ms formula.
func (Policy) DelayMs(attempt int, cfg domain.RetryConfig) int64 {
	return util.CalculateExponentialBackoff(attempt, cfg.BaseDelay, cfg.JitterPercent).Milliseconds()
}

// isConnectionError classifies the underlying Go error as transient and
// worth retrying, independent of any RetryExceptions the caller configured.
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var sysErr syscall.Errno
	if errors.As(err, &sysErr) {
		switch sysErr {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ECONNABORTED, syscall.EPIPE:
			return true
		}
	}

	return false
}

var _ ports.RetryPolicy = Policy{}
