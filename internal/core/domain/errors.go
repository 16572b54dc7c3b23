package domain

import "errors"

// Failure kinds reported by the API client and the outage pipeline.
// Callers add context with fmt.Errorf("...: %w", err) and classify with errors.Is.
var (
	// ErrUnauthorized means the API rejected the credential (HTTP 403).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSiteNotFound means the requested site does not exist (HTTP 404).
	ErrSiteNotFound = errors.New("site not found")

	// ErrDeviceNotFound means an outage reached annotation without a matching
	// device in the site's device list.
	ErrDeviceNotFound = errors.New("device outage not found")

	// ErrUnknown covers any other non-success status and transport failures.
	// It is the only retryable kind.
	ErrUnknown = errors.New("unknown error")

	// ErrMalformedResponse means a 2xx response body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidTimestamp means a begin or cutoff value is not ISO-8601.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// IsRetryable reports whether err is a transient failure worth another attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnknown)
}
