package catalog

import "fmt"

// ParseError represents a malformed catalog file
type ParseError struct {
	Line    int
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	msg := e.Message
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("catalog parse error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("catalog parse error: %s", msg)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// SourceError represents a failure to open or fetch the catalog
type SourceError struct {
	Source string
	Cause  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to read catalog %s: %v", e.Source, e.Cause)
}

func (e *SourceError) Unwrap() error {
	return e.Cause
}
