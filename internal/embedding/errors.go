package embedding

import "fmt"

// LoadError is returned by every Embed call once model construction has failed.
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("embedding model unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("embedding model unavailable: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// APICallError represents a failed request to a remote embedding backend
type APICallError struct {
	Backend string
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s API call failed: %s: %v", e.Backend, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s API call failed: %s", e.Backend, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ResponseError represents a malformed backend response
type ResponseError struct {
	Backend string
	Message string
	Want    int
	Got     int
}

func (e *ResponseError) Error() string {
	if e.Want != e.Got {
		return fmt.Sprintf("%s response error: %s (want %d, got %d)", e.Backend, e.Message, e.Want, e.Got)
	}
	return fmt.Sprintf("%s response error: %s", e.Backend, e.Message)
}
