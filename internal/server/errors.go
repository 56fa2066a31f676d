package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/skillgap/internal/ingestion"
	"github.com/jonathan/skillgap/internal/service"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		unsupported *ingestion.UnsupportedFormatError
		tooLarge    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &unsupported), errors.Is(err, service.ErrEmptyJobTitle):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
