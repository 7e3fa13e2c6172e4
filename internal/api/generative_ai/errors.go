package generativeAI

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredential means no generation credential is configured. Generators
	// treat it as an expected state, not a failure.
	ErrNoCredential = errors.New("generation credential not configured")

	// ErrNetworkUnavailable wraps connectivity failures reaching the service.
	ErrNetworkUnavailable = errors.New("generation service unreachable")
)

const maxErrorBodyInMessage = 512

// TransportError is returned when the generation service answers with a
// non-success HTTP status.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	body := e.Body
	if len(body) > maxErrorBodyInMessage {
		body = body[:maxErrorBodyInMessage] + "..."
	}
	return fmt.Sprintf("generation service returned status %d: %s", e.StatusCode, body)
}

// MalformedContentError is returned when a response cannot be parsed into the
// expected shape.
type MalformedContentError struct {
	Reason string
	Err    error
}

func (e *MalformedContentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed generated content: %s: %v", e.Reason, e.Err)
	}
	return "malformed generated content: " + e.Reason
}

func (e *MalformedContentError) Unwrap() error {
	return e.Err
}

// FailureReason classifies an error for metrics and logs.
func FailureReason(err error) string {
	var transportErr *TransportError
	var malformedErr *MalformedContentError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoCredential):
		return "no_credential"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &malformedErr):
		return "malformed"
	case errors.Is(err, ErrNetworkUnavailable):
		return "network"
	default:
		return "unknown"
	}
}
