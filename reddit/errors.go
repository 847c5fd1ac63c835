package reddit

import "fmt"

// FetchError reports a failed attempt to retrieve a thread payload:
// transport failure, a non-2xx status, or a response that is not JSON.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MissingFieldError reports a thread payload that does not have the expected
// root shape. The extractor is deliberately strict; compare Flatten, which
// skips nodes without a body instead of failing.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("thread payload missing field %q", e.Field)
}
