package llm

import "fmt"

// TransportError indicates the request never produced an HTTP response:
// connection refused, DNS failure, timeout. Retried only on the vision
// grading path.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error calling LLM provider: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError indicates the provider answered with an error: a non-2xx
// status or an error envelope in the response body. Status carries the
// HTTP (or in-body) error code.
type UpstreamError struct {
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("LLM provider error (status %d): %v", e.Status, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// MalformedResponseError indicates a 2xx response whose body lacks the
// expected choices. Never retried.
type MalformedResponseError struct {
	Detail string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed LLM response: %s", e.Detail)
}

// retryable status codes for vision invocations
func isRetryableStatus(status int) bool {
	switch status {
	case 429, 502, 503:
		return true
	}
	return false
}
