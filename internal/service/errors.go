package service

import "errors"

// ErrEmptyJobTitle is returned when a lookup or analysis is requested without a job title.
var ErrEmptyJobTitle = errors.New("job title is required")

// StartupError reports a failure to load reference data while building a Service.
type StartupError struct {
	Stage string
	Cause error
}

func (e *StartupError) Error() string {
	return "failed to start: " + e.Stage + ": " + e.Cause.Error()
}

func (e *StartupError) Unwrap() error {
	return e.Cause
}
