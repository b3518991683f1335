package translation

import "fmt"

// ResponseFormatError indicates that the service answered with something
// that is not well-formed XML
type ResponseFormatError struct {
	Err error
}

func (e *ResponseFormatError) Error() string {
	return fmt.Sprintf("malformed XML response: %v", e.Err)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Err
}

// StatusError represents a non-2xx answer from the translator API
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}
