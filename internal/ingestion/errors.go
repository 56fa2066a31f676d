package ingestion

import "fmt"

// UnsupportedFormatError is returned for file extensions with no extractor
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Ext)
}

// ExtractError represents a backend failure while reading a document
type ExtractError struct {
	Format string
	Path   string
	Cause  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("failed to extract %s text from %s: %v", e.Format, e.Path, e.Cause)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}
