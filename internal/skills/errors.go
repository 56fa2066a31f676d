package skills

import "fmt"

// AliasLoadError represents a failure to load the skill alias table
type AliasLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *AliasLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load skill aliases %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load skill aliases %s: %s", e.Path, e.Message)
}

func (e *AliasLoadError) Unwrap() error {
	return e.Cause
}
