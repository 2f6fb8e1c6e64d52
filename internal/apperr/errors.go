// internal/apperr/errors.go
package apperr

import "errors"

// Sentinel error kinds shared across the application. Components wrap these
// with fmt.Errorf("...: %w", ...) and callers classify with errors.Is.
var (
	// ErrConfiguration marks a missing or malformed required setting.
	ErrConfiguration = errors.New("configuration error")
	// ErrTransport marks a network failure reaching the source or the
	// messaging endpoint.
	ErrTransport = errors.New("transport error")
	// ErrDelivery marks a reachable messaging endpoint that reported a
	// non-affirmative result.
	ErrDelivery = errors.New("delivery error")
	// ErrParse marks a malformed response body.
	ErrParse = errors.New("parse error")
)
