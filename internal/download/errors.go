package download

import (
	"errors"
	"fmt"
)

// Submission error kinds
var (
	// ErrEmptyInput is returned when the URL is empty
	ErrEmptyInput = errors.New("empty URL")

	// ErrServiceUnavailable is returned when the download service cannot take requests.
	// Executors wrap it to signal that condition.
	ErrServiceUnavailable = errors.New("download service unavailable")

	// ErrEnqueueFailed is returned when the download service rejected the request
	ErrEnqueueFailed = errors.New("failed to enqueue download")
)

// SubmissionError describes why Submit did not start a transfer.
// errors.Is matches both the kind and the underlying cause.
type SubmissionError struct {
	Kind error
	URL  string
	Err  error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *SubmissionError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
